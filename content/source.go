package content

import (
	"time"

	"github.com/builtnorth/schemagraph/errors"
)

// Post is the plain-data shape returned by content fetches. The core never
// assumes a particular storage engine behind it.
type Post struct {
	ID        int64
	Type      string // e.g. "post", "page", "product"
	Title     string
	Excerpt   string
	Content   string
	AuthorID  int64
	Published time.Time
	Modified  time.Time
}

// Image is a featured image with its pixel dimensions.
type Image struct {
	URL    string
	Width  int
	Height int
}

// Term is a taxonomy term.
type Term struct {
	ID          int64
	Taxonomy    string
	Name        string
	Description string
}

// Source is the data-fetch collaborator contract. All calls are synchronous
// black-box lookups returning plain data; implementations live in the hosting
// integration.
type Source interface {
	FetchPost(id int64) (*Post, error)
	FetchPostType(id int64) (string, error)
	FetchPermalink(id int64) (string, error)
	FetchTitle(id int64) (string, error)
	FetchExcerpt(id int64) (string, error)
	FetchContent(id int64) (string, error)
	FetchFeaturedImage(id int64) (*Image, error)
	FetchAuthorName(id int64) (string, error)
	FetchSiteName() (string, error)
	FetchSiteDescription() (string, error)
	FetchSiteURL() (string, error)
	FetchTerm(taxonomy string, id int64) (*Term, error)
}

// StaticSource is an in-memory Source for tests and fixtures.
type StaticSource struct {
	SiteName        string
	SiteDescription string
	SiteURL         string

	Posts      map[int64]*Post
	Permalinks map[int64]string
	Images     map[int64]*Image
	Authors    map[int64]string
	Terms      map[string]map[int64]*Term
}

// NewStaticSource creates an empty static source with the given site
// identity.
func NewStaticSource(name, description, url string) *StaticSource {
	return &StaticSource{
		SiteName:        name,
		SiteDescription: description,
		SiteURL:         url,
		Posts:           make(map[int64]*Post),
		Permalinks:      make(map[int64]string),
		Images:          make(map[int64]*Image),
		Authors:         make(map[int64]string),
		Terms:           make(map[string]map[int64]*Term),
	}
}

// AddPost stores a post and its permalink.
func (s *StaticSource) AddPost(post *Post, permalink string) {
	s.Posts[post.ID] = post
	s.Permalinks[post.ID] = permalink
}

// AddTerm stores a taxonomy term.
func (s *StaticSource) AddTerm(term *Term) {
	if s.Terms[term.Taxonomy] == nil {
		s.Terms[term.Taxonomy] = make(map[int64]*Term)
	}
	s.Terms[term.Taxonomy][term.ID] = term
}

func (s *StaticSource) post(id int64) (*Post, error) {
	post, ok := s.Posts[id]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrContentNotFound, "StaticSource", "post",
			"post lookup")
	}
	return post, nil
}

// FetchPost returns the post with the given id.
func (s *StaticSource) FetchPost(id int64) (*Post, error) { return s.post(id) }

// FetchPostType returns the content type of a post.
func (s *StaticSource) FetchPostType(id int64) (string, error) {
	post, err := s.post(id)
	if err != nil {
		return "", err
	}
	return post.Type, nil
}

// FetchPermalink returns the canonical URL of a post.
func (s *StaticSource) FetchPermalink(id int64) (string, error) {
	link, ok := s.Permalinks[id]
	if !ok {
		return "", errors.WrapInvalid(errors.ErrContentNotFound, "StaticSource", "FetchPermalink",
			"permalink lookup")
	}
	return link, nil
}

// FetchTitle returns the post title.
func (s *StaticSource) FetchTitle(id int64) (string, error) {
	post, err := s.post(id)
	if err != nil {
		return "", err
	}
	return post.Title, nil
}

// FetchExcerpt returns the post excerpt.
func (s *StaticSource) FetchExcerpt(id int64) (string, error) {
	post, err := s.post(id)
	if err != nil {
		return "", err
	}
	return post.Excerpt, nil
}

// FetchContent returns the post body.
func (s *StaticSource) FetchContent(id int64) (string, error) {
	post, err := s.post(id)
	if err != nil {
		return "", err
	}
	return post.Content, nil
}

// FetchFeaturedImage returns the featured image, or ErrContentNotFound when
// the post has none.
func (s *StaticSource) FetchFeaturedImage(id int64) (*Image, error) {
	img, ok := s.Images[id]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrContentNotFound, "StaticSource", "FetchFeaturedImage",
			"image lookup")
	}
	return img, nil
}

// FetchAuthorName returns the display name for an author id.
func (s *StaticSource) FetchAuthorName(id int64) (string, error) {
	name, ok := s.Authors[id]
	if !ok {
		return "", errors.WrapInvalid(errors.ErrContentNotFound, "StaticSource", "FetchAuthorName",
			"author lookup")
	}
	return name, nil
}

// FetchSiteName returns the site name.
func (s *StaticSource) FetchSiteName() (string, error) { return s.SiteName, nil }

// FetchSiteDescription returns the site tagline.
func (s *StaticSource) FetchSiteDescription() (string, error) { return s.SiteDescription, nil }

// FetchSiteURL returns the site home URL.
func (s *StaticSource) FetchSiteURL() (string, error) { return s.SiteURL, nil }

// FetchTerm returns the taxonomy term.
func (s *StaticSource) FetchTerm(taxonomy string, id int64) (*Term, error) {
	terms, ok := s.Terms[taxonomy]
	if ok {
		if term, found := terms[id]; found {
			return term, nil
		}
	}
	return nil, errors.WrapInvalid(errors.ErrContentNotFound, "StaticSource", "FetchTerm",
		"term lookup")
}
