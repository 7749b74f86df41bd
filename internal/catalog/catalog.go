// Package catalog describes the tools the registered server exposes. It is
// display data for the settings surfaces; nothing here calls those tools.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/mcpsetup/internal/apperr"
)

// Category groups related tools.
type Category struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	ExampleQueries []string   `json:"example_queries"`
	ToolCount      int        `json:"tool_count"`
	Tools          []ToolInfo `json:"tools"`
}

// ToolInfo is the listing form of one tool.
type ToolInfo struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Required    []string `json:"required,omitempty"`
}

// Match is a search hit.
type Match struct {
	ToolInfo
	Score float64 `json:"relevance_score"`
}

// MinQueryLen is the shortest accepted search query.
const MinQueryLen = 2

type entry struct {
	tool     mcp.Tool
	category string
	keywords []string
}

func (e entry) info() ToolInfo {
	return ToolInfo{
		Name:        e.tool.Name,
		Category:    e.category,
		Description: e.tool.Description,
		Keywords:    e.keywords,
		Required:    e.tool.InputSchema.Required,
	}
}

// Categories returns every category with its tools, in display order.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		tools := toolsIn(c.ID)
		c.ToolCount = len(tools)
		c.Tools = tools
		out = append(out, c)
	}
	return out
}

// Tools lists the tools in one category.
func Tools(categoryID string) ([]ToolInfo, error) {
	if !knownCategory(categoryID) {
		return nil, fmt.Errorf("catalog: %w: category %q", apperr.ErrNotFound, categoryID)
	}
	return toolsIn(categoryID), nil
}

// Tool returns the full declaration of a tool, including its input schema.
func Tool(name string) (mcp.Tool, bool) {
	for _, e := range tools {
		if e.tool.Name == name {
			return e.tool, true
		}
	}
	return mcp.Tool{}, false
}

// Search scores tools against query. Name hits weigh most, then the
// description, each keyword and the category id. An empty categoryID searches
// everything. limit <= 0 means no limit.
func Search(query, categoryID string, limit int) ([]Match, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinQueryLen {
		return nil, fmt.Errorf("catalog: %w: query must be at least %d characters", apperr.ErrInvalidInput, MinQueryLen)
	}
	if categoryID != "" && !knownCategory(categoryID) {
		return nil, fmt.Errorf("catalog: %w: unknown category %q", apperr.ErrInvalidInput, categoryID)
	}

	var matches []Match
	for _, e := range tools {
		if categoryID != "" && e.category != categoryID {
			continue
		}
		var score float64
		if strings.Contains(strings.ToLower(e.tool.Name), q) {
			score += 10
		}
		if strings.Contains(strings.ToLower(e.tool.Description), q) {
			score += 5
		}
		for _, kw := range e.keywords {
			if strings.Contains(strings.ToLower(kw), q) {
				score += 3
			}
		}
		if strings.Contains(e.category, q) {
			score += 2
		}
		if score > 0 {
			matches = append(matches, Match{ToolInfo: e.info(), Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Total returns the number of declared tools.
func Total() int { return len(tools) }

func toolsIn(categoryID string) []ToolInfo {
	out := []ToolInfo{}
	for _, e := range tools {
		if e.category == categoryID {
			out = append(out, e.info())
		}
	}
	return out
}

func knownCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
