package api

import (
	"context"
	"fmt"
	"net/url"
)

// Doctor is a doctor profile as the server returns it.
type Doctor struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Specialty         string  `json:"specialty"`
	Experience        string  `json:"experience"`
	Education         string  `json:"education"`
	Bio               string  `json:"bio"`
	Avatar            string  `json:"avatar"`
	LicenseNumber     string  `json:"license_number"`
	Address           string  `json:"address"`
	DateOfBirth       string  `json:"date_of_birth"`
	Gender            string  `json:"gender"`
	Status            string  `json:"status"` // active, on_leave, inactive
	Certifications    string  `json:"certifications"`
	WorkingHours      string  `json:"working_hours"`
	ConsultationPrice float64 `json:"consultation_price"`
	PatientCount      int     `json:"patient_count"`
	AppointmentCount  int     `json:"appointment_count"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// DoctorInput is the writable profile, sent on create and update.
type DoctorInput struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Specialty         string  `json:"specialty"`
	Experience        string  `json:"experience,omitempty"`
	Education         string  `json:"education,omitempty"`
	Bio               string  `json:"bio,omitempty"`
	Avatar            string  `json:"avatar,omitempty"`
	LicenseNumber     string  `json:"license_number"`
	Address           string  `json:"address,omitempty"`
	DateOfBirth       string  `json:"date_of_birth,omitempty"`
	Gender            string  `json:"gender,omitempty"`
	Status            string  `json:"status,omitempty"`
	Certifications    string  `json:"certifications,omitempty"`
	WorkingHours      string  `json:"working_hours,omitempty"`
	ConsultationPrice float64 `json:"consultation_price,omitempty"`
}

// DoctorFilter narrows a doctor listing. Zero-valued fields are not sent.
type DoctorFilter struct {
	Search    string
	Specialty string
	Status    string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string // asc or desc
}

func (f DoctorFilter) values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "specialty", f.Specialty)
	setString(v, "status", f.Status)
	setInt(v, "limit", f.Limit)
	setInt(v, "offset", f.Offset)
	setString(v, "sort_by", f.SortBy)
	setString(v, "sort_order", f.SortOrder)
	return v
}

// DoctorService covers the /doctors endpoints used by the admin dashboard.
type DoctorService struct {
	client *Client
}

func NewDoctorService(client *Client) *DoctorService {
	return &DoctorService{client: client}
}

// List returns doctors matching the filter.
func (s *DoctorService) List(ctx context.Context, filter DoctorFilter) ([]Doctor, error) {
	resp, err := s.client.Get(ctx, "/doctors", filter.values())
	if err != nil {
		return nil, err
	}
	return decodeData[[]Doctor](resp)
}

// Get fetches one doctor by id.
func (s *DoctorService) Get(ctx context.Context, id int) (*Doctor, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("/doctors/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*Doctor](resp)
}

// Create adds a doctor and returns the stored profile.
func (s *DoctorService) Create(ctx context.Context, input DoctorInput) (*Doctor, error) {
	resp, err := s.client.Post(ctx, "/doctors", input)
	if err != nil {
		return nil, err
	}
	return decodeData[*Doctor](resp)
}

// Update replaces a doctor's writable fields.
func (s *DoctorService) Update(ctx context.Context, id int, input DoctorInput) (*Doctor, error) {
	resp, err := s.client.Put(ctx, fmt.Sprintf("/doctors/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeData[*Doctor](resp)
}

// Delete removes a doctor.
func (s *DoctorService) Delete(ctx context.Context, id int) error {
	resp, err := s.client.Delete(ctx, fmt.Sprintf("/doctors/%d", id))
	if err != nil {
		return err
	}
	_, err = decodeData[struct{}](resp)
	return err
}

// Specialties lists the distinct specialties for filter dropdowns.
func (s *DoctorService) Specialties(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, "/doctors/specialties", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]string](resp)
}
