package schema

// LabelTable represents a label table. Tags and categories share one shape
// and live in sibling tables so that their slugs are unique per namespace.
type LabelTable struct {
	// Table is the schema-qualified PostgreSQL name ("content.tag").
	Table string
	// Name is the unqualified name used by SQLite ("tag").
	Name string

	ID          string
	Label       string
	Slug        string
	Description string
	Color       string
	Featured    string
	CreatedAt   string
}

// ContentTag is the schema definition for content.tag
var ContentTag = newLabelTable("tag")

// ContentCategory is the schema definition for content.category
var ContentCategory = newLabelTable("category")

func newLabelTable(name string) LabelTable {
	return LabelTable{
		Table:       "content." + name,
		Name:        name,
		ID:          "id",
		Label:       "name",
		Slug:        "slug",
		Description: "description",
		Color:       "color",
		Featured:    "featured",
		CreatedAt:   "createdat",
	}
}

func (t LabelTable) Columns() []string {
	return []string{t.ID, t.Label, t.Slug, t.Description, t.Color, t.Featured, t.CreatedAt}
}
