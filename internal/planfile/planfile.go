// Package planfile reads TOML plan scripts and replays them through the
// planner, for headless reports and fixtures.
//
// A plan looks like:
//
//	days = 3
//
//	[[category]]
//	name = "Groceries"
//	budget = "300"
//	subcategories = ["Food", "Household"]
//
//	[[spend]]
//	category = "Groceries"
//	subcategory = "Food"
//	amount = "50"
//
// Money may be written as a TOML string or number; strings are exact.
package planfile

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
)

// Plan is a scripted month.
type Plan struct {
	Days       int        `toml:"days"`
	Categories []Category `toml:"category"`
	Spends     []Spend    `toml:"spend"`
}

// Category declares one budget category.
type Category struct {
	Name          string          `toml:"name"`
	Budget        decimal.Decimal `toml:"budget"`
	Subcategories []string        `toml:"subcategories"`
}

// Spend logs one day against a category by name.
type Spend struct {
	Category    string          `toml:"category"`
	Subcategory string          `toml:"subcategory"`
	Amount      decimal.Decimal `toml:"amount"`
}

// Load parses the plan file at path.
func Load(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, fmt.Errorf("opening plan: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode parses a plan from r. Unknown keys are rejected so typos surface.
func Decode(r io.Reader) (Plan, error) {
	var p Plan
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Plan{}, fmt.Errorf("parsing plan: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Plan{}, fmt.Errorf("parsing plan: unknown key %q", undecoded[0].String())
	}
	return p, nil
}

// Rejection records a plan step the planner refused.
type Rejection struct {
	Step   string
	Action planner.Action
	Err    error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s: %v", r.Step, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Replay applies the plan to a fresh session: every category, then
// StartMonth, then every spend in order. Rejected steps are skipped and
// reported; the replay never aborts early.
func Replay(p Plan) (model.Session, []Rejection) {
	s := model.NewSession()
	var rejected []Rejection

	apply := func(step string, a planner.Action) {
		next, err := planner.Apply(s, a)
		if err != nil {
			rejected = append(rejected, Rejection{Step: step, Action: a, Err: err})
			return
		}
		s = next
	}

	for i, c := range p.Categories {
		apply(fmt.Sprintf("category[%d] %s", i, c.Name), planner.AddCategory{
			Name:          c.Name,
			Budget:        c.Budget,
			Subcategories: c.Subcategories,
		})
	}
	apply("start", planner.StartMonth{Days: p.Days})

	for i, sp := range p.Spends {
		apply(fmt.Sprintf("spend[%d] %s/%s", i, sp.Category, sp.Subcategory), planner.LogSpendNamed{
			Category:    sp.Category,
			Subcategory: sp.Subcategory,
			Amount:      sp.Amount,
		})
	}
	return s, rejected
}
