package api

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, contentType, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

func TestDecodeData_Success(t *testing.T) {
	resp := response(http.StatusOK, "application/json", `{"success":true,"data":{"id":7,"name":"Dr. B"}}`)

	doctor, err := decodeData[*Doctor](resp)
	require.NoError(t, err)
	assert.Equal(t, 7, doctor.ID)
	assert.Equal(t, "Dr. B", doctor.Name)
}

func TestDecodeData_SuccessWithCharsetParam(t *testing.T) {
	resp := response(http.StatusOK, "application/json; charset=utf-8", `{"success":true,"data":[]}`)

	doctors, err := decodeData[[]Doctor](resp)
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestDecodeData_VoidOperation(t *testing.T) {
	resp := response(http.StatusOK, "application/json", `{"success":true,"message":"Doctor deleted successfully"}`)

	_, err := decodeData[struct{}](resp)
	assert.NoError(t, err)
}

func TestDecodeData_NotFoundWithoutBody(t *testing.T) {
	// A management endpoint answering 404 with an empty body usually means
	// the URL is wrong, and the message must say so.
	resp := response(http.StatusNotFound, "text/plain", "")

	_, err := decodeData[*BlogPost](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "Endpoint not found")
}

func TestDecodeData_NotFoundWithServerMessage(t *testing.T) {
	resp := response(http.StatusNotFound, "application/json", `{"success":false,"error":"Doctor not found"}`)

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "Doctor not found")
}

func TestDecodeData_Forbidden(t *testing.T) {
	resp := response(http.StatusForbidden, "application/json", `{}`)

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindForbidden))
	assert.Contains(t, err.Error(), "do not have permission")
}

func TestDecodeData_ValidationMessagePassedVerbatim(t *testing.T) {
	resp := response(http.StatusBadRequest, "application/json", `{"success":false,"error":"Email không đúng định dạng"}`)

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "Email không đúng định dạng")
}

func TestDecodeData_ServerErrorWithoutMessage(t *testing.T) {
	resp := response(http.StatusInternalServerError, "text/html", "<html>oops</html>")

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
	assert.Contains(t, err.Error(), "Server error: 500")
}

func TestDecodeData_NonJSONContentType(t *testing.T) {
	resp := response(http.StatusOK, "text/html", "<html>login page</html>")

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
	assert.Contains(t, err.Error(), "did not return JSON")
}

func TestDecodeData_UnparseableJSONBody(t *testing.T) {
	resp := response(http.StatusOK, "application/json", `{"success":tru`)

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
}

func TestDecodeData_EnvelopeFailure(t *testing.T) {
	// A 2xx can still carry success:false; the server's message wins.
	resp := response(http.StatusOK, "application/json", `{"success":false,"error":"Title is required"}`)

	_, err := decodeData[*BlogPost](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "Title is required")
}

func TestDecodeData_MismatchedDataShape(t *testing.T) {
	resp := response(http.StatusOK, "application/json", `{"success":true,"data":"not an object"}`)

	_, err := decodeData[*Doctor](resp)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
}

func TestDecodeData_NullData(t *testing.T) {
	resp := response(http.StatusOK, "application/json", `{"success":true,"data":null}`)

	doctor, err := decodeData[*Doctor](resp)
	require.NoError(t, err)
	assert.Nil(t, doctor)
}
