package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhatpm-sg/medical/internal/session"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   []byte
}

// recordingServer answers every request with the given envelope body and
// records what the service sent.
func recordingServer(t *testing.T, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newBlogService(t *testing.T, body string) (*BlogService, *recordedRequest) {
	t.Helper()
	srv, rec := recordingServer(t, body)
	return NewBlogService(NewClient(srv.URL, session.NewMemoryStore())), rec
}

func TestBlogService_PublishedPosts(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":[{"id":1,"title":"Hello","status":"published"}],"count":1}`)

	posts, err := svc.PublishedPosts(context.Background(), BlogFilter{Category: "news", Limit: 5})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/blog/posts", rec.path)
	assert.Equal(t, "category=news&limit=5", rec.query)
}

func TestBlogService_PublishedPost_IncrementView(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":{"id":9,"title":"Post"}}`)

	post, err := svc.PublishedPost(context.Background(), 9, true)
	require.NoError(t, err)
	assert.Equal(t, 9, post.ID)

	assert.Equal(t, "/blog/posts/9", rec.path)
	assert.Equal(t, "increment_view=true", rec.query)
}

func TestBlogService_PublishedPost_NoIncrement(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":{"id":9}}`)

	_, err := svc.PublishedPost(context.Background(), 9, false)
	require.NoError(t, err)
	assert.Empty(t, rec.query)
}

func TestBlogService_Categories(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":["Sức khỏe","Dinh dưỡng"]}`)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sức khỏe", "Dinh dưỡng"}, categories)
	assert.Equal(t, "/blog/categories", rec.path)
}

func TestBlogService_ManagedPosts(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":[]}`)

	_, err := svc.ManagedPosts(context.Background(), BlogFilter{Status: "draft", AuthorID: 2})
	require.NoError(t, err)

	assert.Equal(t, "/blog/manage/posts", rec.path)
	assert.Equal(t, "author_id=2&status=draft", rec.query)
}

func TestBlogService_CreatePost(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"message":"Blog post created successfully","data":{"id":11,"title":"Draft","status":"draft"}}`)

	post, err := svc.CreatePost(context.Background(), BlogPostInput{Title: "Draft", Content: "body", Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, 11, post.ID)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/blog/manage/posts", rec.path)

	var sent BlogPostInput
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "Draft", sent.Title)
}

func TestBlogService_UpdatePost(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":{"id":11,"title":"Edited"}}`)

	post, err := svc.UpdatePost(context.Background(), 11, BlogPostInput{Title: "Edited", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Edited", post.Title)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/blog/manage/posts/11", rec.path)
}

func TestBlogService_DeletePost(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"message":"Blog post deleted successfully"}`)

	err := svc.DeletePost(context.Background(), 11)
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/blog/manage/posts/11", rec.path)
}

func TestBlogService_PublishUnpublish(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":{"id":4,"status":"published"}}`)

	post, err := svc.PublishPost(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "published", post.Status)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/blog/manage/posts/4/publish", rec.path)

	_, err = svc.UnpublishPost(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "/blog/manage/posts/4/unpublish", rec.path)
}

func TestBlogService_Stats(t *testing.T) {
	svc, rec := newBlogService(t, `{"success":true,"data":{"total_posts":12,"published_posts":8,"draft_posts":4,"total_views":1234}}`)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalPosts)
	assert.Equal(t, 1234, stats.TotalViews)
	assert.Equal(t, "/blog/manage/stats", rec.path)
}

func TestBlogService_ManagementEndpointMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewBlogService(NewClient(srv.URL, session.NewMemoryStore()))
	_, err := svc.Stats(context.Background())

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Contains(t, err.Error(), "Endpoint not found")
}
