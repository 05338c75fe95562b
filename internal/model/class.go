package model

// Tag tables in the osm schema.
const (
	NodeTags = "node_tags"
	WayTags  = "way_tags"
)

// Attributes handled by the normalizers.
const (
	AttrPhone    = "phone"
	AttrPostcode = "postcode"
	AttrStreet   = "street"
)

// Selector identifies one class of tag records in the store.
// KeyPattern is matched with SQL LIKE; Types is an allow-list for the type column.
type Selector struct {
	Table      string
	KeyPattern string
	Types      []string
}

// Class binds a selector to the attribute normalizer that rewrites it.
type Class struct {
	Name      string
	Attribute string
	Selector  Selector
}

// AllClasses lists the registered attribute classes in run order.
var AllClasses = []Class{
	{Name: "phone", Attribute: AttrPhone, Selector: Selector{Table: NodeTags, KeyPattern: "%phone%", Types: []string{"regular", "contact"}}},
	{Name: "postcode", Attribute: AttrPostcode, Selector: Selector{Table: WayTags, KeyPattern: "postcode", Types: []string{"addr"}}},
	{Name: "street", Attribute: AttrStreet, Selector: Selector{Table: WayTags, KeyPattern: "street", Types: []string{"addr"}}},
	{Name: "node_postcode", Attribute: AttrPostcode, Selector: Selector{Table: NodeTags, KeyPattern: "postcode", Types: []string{"addr"}}},
	{Name: "node_street", Attribute: AttrStreet, Selector: Selector{Table: NodeTags, KeyPattern: "street", Types: []string{"addr"}}},
}

// ClassNames returns the names of all registered classes.
func ClassNames() []string {
	names := make([]string, len(AllClasses))
	for i, c := range AllClasses {
		names[i] = c.Name
	}
	return names
}

// ClassByName returns the Class for the given name, or ok=false.
func ClassByName(name string) (Class, bool) {
	for _, c := range AllClasses {
		if c.Name == name {
			return c, true
		}
	}
	return Class{}, false
}

// ParentColumn returns the feature id column of a tag table.
func ParentColumn(table string) (string, bool) {
	switch table {
	case NodeTags:
		return "node_id", true
	case WayTags:
		return "way_id", true
	}
	return "", false
}
