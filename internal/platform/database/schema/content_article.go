package schema

// ArticleTable represents the 'content.article' table
type ArticleTable struct {
	Table string
	Name  string

	ID             string
	Title          string
	Slug           string
	Excerpt        string
	Content        string
	CoverURL       string
	Tags           string
	Categories     string
	Published      string
	Featured       string
	ReadingMinutes string
	PublishedAt    string
	CreatedAt      string
	UpdatedAt      string
}

// ContentArticle is the schema definition for content.article
var ContentArticle = ArticleTable{
	Table:          "content.article",
	Name:           "article",
	ID:             "id",
	Title:          "title",
	Slug:           "slug",
	Excerpt:        "excerpt",
	Content:        "content",
	CoverURL:       "coverurl",
	Tags:           "tags",
	Categories:     "categories",
	Published:      "published",
	Featured:       "featured",
	ReadingMinutes: "readingminutes",
	PublishedAt:    "publishedat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t ArticleTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Excerpt, t.Content, t.CoverURL, t.Tags, t.Categories,
		t.Published, t.Featured, t.ReadingMinutes, t.PublishedAt, t.CreatedAt, t.UpdatedAt,
	}
}
