package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/builtnorth/schemagraph/content"
)

// fixtureFile is the YAML shape of a content fixture: site identity plus
// the posts and terms available to the providers.
type fixtureFile struct {
	Site struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		URL         string `yaml:"url"`
	} `yaml:"site"`

	Posts []struct {
		ID        int64     `yaml:"id"`
		Type      string    `yaml:"type"`
		Title     string    `yaml:"title"`
		Excerpt   string    `yaml:"excerpt"`
		Content   string    `yaml:"content"`
		Author    string    `yaml:"author"`
		Permalink string    `yaml:"permalink"`
		Published time.Time `yaml:"published"`
		Modified  time.Time `yaml:"modified"`
		Image     struct {
			URL    string `yaml:"url"`
			Width  int    `yaml:"width"`
			Height int    `yaml:"height"`
		} `yaml:"image"`
	} `yaml:"posts"`

	Terms []struct {
		ID          int64  `yaml:"id"`
		Taxonomy    string `yaml:"taxonomy"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"terms"`
}

// loadFixture reads a YAML fixture into a static content source.
func loadFixture(path string) (*content.StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture read: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("fixture parse: %w", err)
	}

	src := content.NewStaticSource(file.Site.Name, file.Site.Description, file.Site.URL)

	for i, p := range file.Posts {
		postType := p.Type
		if postType == "" {
			postType = "post"
		}
		authorID := int64(i + 1)
		src.AddPost(&content.Post{
			ID:        p.ID,
			Type:      postType,
			Title:     p.Title,
			Excerpt:   p.Excerpt,
			Content:   p.Content,
			AuthorID:  authorID,
			Published: p.Published,
			Modified:  p.Modified,
		}, p.Permalink)

		if p.Author != "" {
			src.Authors[authorID] = p.Author
		}
		if p.Image.URL != "" {
			src.Images[p.ID] = &content.Image{
				URL:    p.Image.URL,
				Width:  p.Image.Width,
				Height: p.Image.Height,
			}
		}
	}

	for _, term := range file.Terms {
		src.AddTerm(&content.Term{
			ID:          term.ID,
			Taxonomy:    term.Taxonomy,
			Name:        term.Name,
			Description: term.Description,
		})
	}

	return src, nil
}
