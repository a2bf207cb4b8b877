package store

import "strings"

// Template is a named list of suggested subcategories for a category.
type Template struct {
	Name          string
	Subcategories []string
	Builtin       bool
}

// DefaultTemplates seed a fresh catalog.
var DefaultTemplates = []Template{
	{Name: "Groceries", Subcategories: []string{"Food & Beverages", "Household Items", "Personal Care", "Snacks"}, Builtin: true},
	{Name: "Entertainment", Subcategories: []string{"Streaming Services", "Movies & Theater", "Games", "Hobbies", "Subscriptions"}, Builtin: true},
	{Name: "Dining", Subcategories: []string{"Restaurants", "Fast Food", "Coffee Shops", "Delivery"}, Builtin: true},
	{Name: "Transportation", Subcategories: []string{"Fuel", "Public Transit", "Parking", "Maintenance", "Ride Share"}, Builtin: true},
	{Name: "Shopping", Subcategories: []string{"Clothing", "Electronics", "Home Goods", "Gifts", "Online Shopping"}, Builtin: true},
	{Name: "Utilities", Subcategories: []string{"Electricity", "Water", "Internet", "Phone", "Gas"}, Builtin: true},
	{Name: "Health", Subcategories: []string{"Medications", "Doctor Visits", "Gym", "Supplements", "Insurance"}, Builtin: true},
	{Name: "Education", Subcategories: []string{"Books", "Courses", "Supplies", "Tuition"}, Builtin: true},
}

// Match returns the templates whose name contains input, ignoring case.
// Blank input matches nothing.
func Match(templates []Template, input string) []Template {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return nil
	}
	var out []Template
	for _, t := range templates {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Lookup returns the template with exactly this name, ignoring case.
func Lookup(templates []Template, name string) (Template, bool) {
	for _, t := range templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Template{}, false
}
