package schema

// ProjectTable represents the 'content.project' table
type ProjectTable struct {
	Table string
	Name  string

	ID          string
	Title       string
	Slug        string
	Summary     string
	Description string
	RepoURL     string
	LiveURL     string
	ImageURL    string
	Tags        string
	Categories  string
	Featured    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// ContentProject is the schema definition for content.project
var ContentProject = ProjectTable{
	Table:       "content.project",
	Name:        "project",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Summary:     "summary",
	Description: "description",
	RepoURL:     "repourl",
	LiveURL:     "liveurl",
	ImageURL:    "imageurl",
	Tags:        "tags",
	Categories:  "categories",
	Featured:    "featured",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t ProjectTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Summary, t.Description, t.RepoURL, t.LiveURL, t.ImageURL,
		t.Tags, t.Categories, t.Featured, t.SortOrder, t.CreatedAt, t.UpdatedAt,
	}
}
