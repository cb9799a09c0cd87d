package api

import (
	"context"
	"fmt"
	"net/url"
)

// BlogPost is a post as the server returns it.
type BlogPost struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Excerpt     string `json:"excerpt"`
	Thumbnail   string `json:"thumbnail"`
	AuthorID    int    `json:"author_id"`
	AuthorName  string `json:"author_name"`
	Status      string `json:"status"` // draft, published, archived
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	ViewCount   int    `json:"view_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	PublishedAt string `json:"published_at,omitempty"`
}

// BlogPostInput is the writable subset of a post, sent on create and update.
type BlogPostInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Category  string `json:"category,omitempty"`
	Tags      string `json:"tags,omitempty"`
	Status    string `json:"status,omitempty"`
}

// BlogStats is the management dashboard's summary block.
type BlogStats struct {
	TotalPosts     int `json:"total_posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	TotalViews     int `json:"total_views"`
}

// BlogFilter narrows a post listing. Zero-valued fields are not sent.
type BlogFilter struct {
	Search    string
	Category  string
	Status    string
	AuthorID  int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string // asc or desc
}

func (f BlogFilter) values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "category", f.Category)
	setString(v, "status", f.Status)
	setInt(v, "author_id", f.AuthorID)
	setInt(v, "limit", f.Limit)
	setInt(v, "offset", f.Offset)
	setString(v, "sort_by", f.SortBy)
	setString(v, "sort_order", f.SortOrder)
	return v
}

// BlogService covers the reader-facing blog endpoints and the authenticated
// management surface under /blog/manage. Mutations perform exactly one call;
// refreshing a listing afterwards is the caller's job.
type BlogService struct {
	client *Client
}

func NewBlogService(client *Client) *BlogService {
	return &BlogService{client: client}
}

// PublishedPosts lists reader-facing published posts.
func (s *BlogService) PublishedPosts(ctx context.Context, filter BlogFilter) ([]BlogPost, error) {
	resp, err := s.client.Get(ctx, "/blog/posts", filter.values())
	if err != nil {
		return nil, err
	}
	return decodeData[[]BlogPost](resp)
}

// PublishedPost fetches one published post. incrementView asks the server to
// bump its view counter, so pass false for background refreshes.
func (s *BlogService) PublishedPost(ctx context.Context, id int, incrementView bool) (*BlogPost, error) {
	var query url.Values
	if incrementView {
		query = url.Values{"increment_view": {"true"}}
	}
	resp, err := s.client.Get(ctx, fmt.Sprintf("/blog/posts/%d", id), query)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogPost](resp)
}

// Categories lists the distinct post categories.
func (s *BlogService) Categories(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, "/blog/categories", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]string](resp)
}

// ManagedPosts lists posts of every status for the management dashboard.
func (s *BlogService) ManagedPosts(ctx context.Context, filter BlogFilter) ([]BlogPost, error) {
	resp, err := s.client.Get(ctx, "/blog/manage/posts", filter.values())
	if err != nil {
		return nil, err
	}
	return decodeData[[]BlogPost](resp)
}

// ManagedPost fetches one post regardless of status.
func (s *BlogService) ManagedPost(ctx context.Context, id int) (*BlogPost, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("/blog/manage/posts/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogPost](resp)
}

// CreatePost creates a post and returns it as stored.
func (s *BlogService) CreatePost(ctx context.Context, input BlogPostInput) (*BlogPost, error) {
	resp, err := s.client.Post(ctx, "/blog/manage/posts", input)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogPost](resp)
}

// UpdatePost replaces a post's writable fields.
func (s *BlogService) UpdatePost(ctx context.Context, id int, input BlogPostInput) (*BlogPost, error) {
	resp, err := s.client.Put(ctx, fmt.Sprintf("/blog/manage/posts/%d", id), input)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogPost](resp)
}

// DeletePost removes a post.
func (s *BlogService) DeletePost(ctx context.Context, id int) error {
	resp, err := s.client.Delete(ctx, fmt.Sprintf("/blog/manage/posts/%d", id))
	if err != nil {
		return err
	}
	_, err = decodeData[struct{}](resp)
	return err
}

// PublishPost moves a draft to published.
func (s *BlogService) PublishPost(ctx context.Context, id int) (*BlogPost, error) {
	resp, err := s.client.Post(ctx, fmt.Sprintf("/blog/manage/posts/%d/publish", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogPost](resp)
}

// UnpublishPost moves a published post back to draft.
func (s *BlogService) UnpublishPost(ctx context.Context, id int) (*BlogPost, error) {
	resp, err := s.client.Post(ctx, fmt.Sprintf("/blog/manage/posts/%d/unpublish", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogPost](resp)
}

// Stats returns the management dashboard counters.
func (s *BlogService) Stats(ctx context.Context) (*BlogStats, error) {
	resp, err := s.client.Get(ctx, "/blog/manage/stats", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*BlogStats](resp)
}
