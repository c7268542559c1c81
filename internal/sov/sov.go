// Package sov assembles the client-facing Schedule of Values.
package sov

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/glazingpm/internal/budget"
	"github.com/alexanderramin/glazingpm/internal/catalog"
	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"github.com/alexanderramin/glazingpm/internal/scope"
)

// LineItem is one scheduled value.
type LineItem struct {
	Description string                  `json:"description"`
	SpecSection string                  `json:"spec_section,omitempty"`
	Category    domain.BillingCategory  `json:"category"`
	Material    domain.MaterialCategory `json:"material,omitempty"`
	Value       domain.Cents            `json:"value"`
	Percent     domain.BasisPoints      `json:"percent"`
	Trigger     string                  `json:"trigger"`
	Vendors     []string                `json:"vendors,omitempty"`
}

// Group is one scope's line items, in billing category order.
type Group struct {
	Scope       domain.ScopeCategory `json:"scope"`
	Name        string               `json:"name"`
	SpecSection string               `json:"spec_section,omitempty"`
	Value       domain.Cents         `json:"value"`
	Vendors     []string             `json:"vendors,omitempty"`
	Lines       []LineItem           `json:"lines"`
}

// Total sums the group's lines.
func (g Group) Total() domain.Cents {
	var total domain.Cents
	for _, l := range g.Lines {
		total += l.Value
	}
	return total
}

// Document is the Schedule of Values. Groups is the only stored form;
// Rows and Tree are views over it.
type Document struct {
	Project       string
	ContractValue domain.Cents
	Groups        []Group
	Warnings      []domain.Warning
}

// Total sums every line item.
func (d Document) Total() domain.Cents {
	var total domain.Cents
	for _, g := range d.Groups {
		total += g.Total()
	}
	return total
}

// Row is the flat tabular view of a line item.
type Row struct {
	Item        string                 `json:"item"`
	Scope       domain.ScopeCategory   `json:"scope"`
	Description string                 `json:"description"`
	SpecSection string                 `json:"spec_section,omitempty"`
	Category    domain.BillingCategory `json:"category"`
	Value       domain.Cents           `json:"value"`
	Percent     domain.BasisPoints     `json:"percent"`
	Trigger     string                 `json:"trigger"`
}

// Rows flattens the groups with item numbers "<group>.<line>".
func (d Document) Rows() []Row {
	var rows []Row
	for gi, g := range d.Groups {
		for li, l := range g.Lines {
			rows = append(rows, Row{
				Item:        fmt.Sprintf("%d.%d", gi+1, li+1),
				Scope:       g.Scope,
				Description: l.Description,
				SpecSection: l.SpecSection,
				Category:    l.Category,
				Value:       l.Value,
				Percent:     l.Percent,
				Trigger:     l.Trigger,
			})
		}
	}
	return rows
}

// CategoryNode groups a scope's lines of one billing category.
type CategoryNode struct {
	Category domain.BillingCategory `json:"category"`
	Label    string                 `json:"label"`
	Value    domain.Cents           `json:"value"`
	Lines    []LineItem             `json:"lines"`
}

// ScopeNode is the hierarchical view of one group.
type ScopeNode struct {
	Scope      domain.ScopeCategory `json:"scope"`
	Name       string               `json:"name"`
	Value      domain.Cents         `json:"value"`
	Categories []CategoryNode       `json:"categories"`
}

// Tree nests the line items by scope, then billing category.
func (d Document) Tree() []ScopeNode {
	nodes := make([]ScopeNode, 0, len(d.Groups))
	for _, g := range d.Groups {
		node := ScopeNode{Scope: g.Scope, Name: g.Name, Value: g.Total()}
		for _, b := range domain.AllBillingCategories() {
			cn := CategoryNode{Category: b, Label: b.Label()}
			for _, l := range g.Lines {
				if l.Category == b {
					cn.Lines = append(cn.Lines, l)
					cn.Value += l.Value
				}
			}
			if len(cn.Lines) > 0 {
				node.Categories = append(node.Categories, cn)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// MarshalJSON emits both views.
func (d Document) MarshalJSON() ([]byte, error) {
	rows := d.Rows()
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(struct {
		Project       string           `json:"project"`
		ContractValue domain.Cents     `json:"contract_value"`
		Total         domain.Cents     `json:"total"`
		Rows          []Row            `json:"rows"`
		Tree          []ScopeNode      `json:"tree"`
		Warnings      []domain.Warning `json:"warnings,omitempty"`
	}{d.Project, d.ContractValue, d.Total(), rows, d.Tree(), d.Warnings})
}

// UnmarshalJSON rebuilds Groups from the tree view.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Project       string           `json:"project"`
		ContractValue domain.Cents     `json:"contract_value"`
		Tree          []ScopeNode      `json:"tree"`
		Warnings      []domain.Warning `json:"warnings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document{Project: raw.Project, ContractValue: raw.ContractValue, Warnings: raw.Warnings}
	for _, node := range raw.Tree {
		g := Group{Scope: node.Scope, Name: node.Name, Value: node.Value}
		seen := make(map[string]bool)
		for _, cn := range node.Categories {
			for _, l := range cn.Lines {
				if g.SpecSection == "" {
					g.SpecSection = l.SpecSection
				}
				for _, v := range l.Vendors {
					if !seen[v] {
						seen[v] = true
						g.Vendors = append(g.Vendors, v)
					}
				}
				g.Lines = append(g.Lines, l)
			}
		}
		d.Groups = append(d.Groups, g)
	}
	return nil
}

// Generate joins the matched scopes with the budget's category totals. The
// line items total the contract value exactly; any difference between the
// budget and the contract is absorbed into the largest scope's general
// conditions line.
func Generate(cat *catalog.Catalog, c contract.Contract, matches []scope.Match, b budget.Document) (Document, error) {
	split, err := scheduler.SplitContract(cat, c, matches)
	if err != nil {
		return Document{}, err
	}
	return Build(c, split, b)
}

// Build assembles the document from an existing split.
func Build(c contract.Contract, split scheduler.Split, b budget.Document) (Document, error) {
	doc := Document{
		Project:       c.Name,
		ContractValue: c.Value,
		Warnings:      append([]domain.Warning(nil), b.Warnings...),
	}

	for _, sc := range split.Scopes {
		doc.Groups = append(doc.Groups, buildGroup(sc, b))
	}
	if len(doc.Groups) == 0 {
		return doc, nil
	}

	if drift := c.Value - doc.Total(); drift != 0 {
		if err := absorb(&doc, drift); err != nil {
			return Document{}, err
		}
	}
	for gi := range doc.Groups {
		g := &doc.Groups[gi]
		for li := range g.Lines {
			g.Lines[li].Percent = domain.ShareOf(g.Lines[li].Value, g.Value)
		}
	}
	return doc, nil
}

func buildGroup(sc scheduler.ScopeSplit, b budget.Document) Group {
	category := sc.Match.Category
	section := sc.Match.PrimarySpecSection(sc.Definition)
	label := category.Label()
	g := Group{
		Scope:       category,
		Name:        label,
		SpecSection: section,
		Vendors:     sc.Match.AllVendorNames(),
	}

	line := func(desc string, billing domain.BillingCategory, value domain.Cents) LineItem {
		return LineItem{
			Description: desc,
			SpecSection: section,
			Category:    billing,
			Value:       value,
			Trigger:     billing.Trigger(),
		}
	}

	gc := b.Sum(func(l budget.Line) bool {
		return l.Scope == category && l.BillingCategory == domain.BillingGeneralConditions
	})
	g.Lines = append(g.Lines, line(label+" - General Conditions / Submittals", domain.BillingGeneralConditions, gc))

	order, amounts := b.MaterialTotals(category)
	for _, m := range order {
		name := "Materials"
		if m != "" {
			name = m.Label()
		}
		li := line(fmt.Sprintf("%s - %s", label, name), domain.BillingMaterials, amounts[m])
		li.Material = m
		li.Vendors = sc.Match.VendorNames(m)
		g.Lines = append(g.Lines, li)
	}

	labor := b.Sum(func(l budget.Line) bool {
		return l.Scope == category && l.BillingCategory == domain.BillingLabor
	})
	g.Lines = append(g.Lines, line(label+" - Labor / Installation", domain.BillingLabor, labor))
	g.Lines = append(g.Lines, line(label+" - Retention ("+retentionLabel(sc)+")", domain.BillingRetention, sc.Retention))
	g.Value = g.Total()
	return g
}

func retentionLabel(sc scheduler.ScopeSplit) string {
	return strings.Replace(domain.ShareOf(sc.Retention, sc.Value).String(), ".00%", "%", 1)
}

// absorb adds drift to the general conditions line of the largest scope.
func absorb(doc *Document, drift domain.Cents) error {
	values := make([]domain.Cents, len(doc.Groups))
	for i, g := range doc.Groups {
		values[i] = g.Value
	}
	g := &doc.Groups[domain.LargestIndex(values)]
	for i := range g.Lines {
		if g.Lines[i].Category != domain.BillingGeneralConditions {
			continue
		}
		if g.Lines[i].Value+drift < 0 {
			return fmt.Errorf("cannot absorb %s rounding drift into %s general conditions (%s)", drift, g.Name, g.Lines[i].Value)
		}
		g.Lines[i].Value += drift
		g.Value = g.Total()
		return nil
	}
	return fmt.Errorf("scope %s has no general conditions line", g.Name)
}
