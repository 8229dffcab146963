// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import "github.com/taibuivan/folio/internal/platform/database/schema"

// contentKinds lists the tables that embed label names.
var contentKinds = []ContentKind{KindArticle, KindProject}

// contentColumns is the subset of a content table the label stores touch.
type contentColumns struct {
	qualified  string
	name       string
	id         string
	title      string
	slug       string
	tags       string
	categories string
	updatedAt  string

	// published is empty for kinds that have no draft state.
	published string
}

func contentTableFor(kind ContentKind) contentColumns {
	if kind == KindProject {
		table := schema.ContentProject
		return contentColumns{
			qualified: table.Table, name: table.Name,
			id: table.ID, title: table.Title, slug: table.Slug,
			tags: table.Tags, categories: table.Categories, updatedAt: table.UpdatedAt,
		}
	}

	table := schema.ContentArticle
	return contentColumns{
		qualified: table.Table, name: table.Name,
		id: table.ID, title: table.Title, slug: table.Slug,
		tags: table.Tags, categories: table.Categories, updatedAt: table.UpdatedAt,
		published: table.Published,
	}
}

// labelsColumn returns the array column holding names of the given namespace.
func (c contentColumns) labelsColumn(namespace Namespace) string {
	if namespace == NamespaceCategory {
		return c.categories
	}
	return c.tags
}

func labelTableFor(namespace Namespace) schema.LabelTable {
	if namespace == NamespaceCategory {
		return schema.ContentCategory
	}
	return schema.ContentTag
}

// nullIfEmpty maps an empty patch value to SQL NULL.
func nullIfEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
