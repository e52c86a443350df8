package payment

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"taskease/internal/domain"
)

//go:embed pricing.toml
var defaultPricing string

// Plan is a purchasable item. Price is the reference amount before currency
// conversion.
type Plan struct {
	ID      string          `toml:"id" json:"id"`
	Name    string          `toml:"name" json:"name"`
	Kind    domain.PlanKind `toml:"kind" json:"kind"`
	Credits int             `toml:"credits" json:"credits,omitempty"`
	Price   float64         `toml:"price" json:"price"`
}

// Catalog is the validated set of plans keyed by id.
type Catalog struct {
	plans []Plan
	byID  map[string]Plan
}

type catalogFile struct {
	Plans []Plan `toml:"plans"`
}

// LoadCatalog reads the pricing file at path, or the embedded default when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	raw := defaultPricing
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pricing file: %w", err)
		}
		raw = string(b)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw string) (*Catalog, error) {
	var file catalogFile
	md, err := toml.Decode(raw, &file)
	if err != nil {
		return nil, fmt.Errorf("decode pricing: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode pricing: unknown key %q", undecoded[0].String())
	}
	c := &Catalog{byID: make(map[string]Plan, len(file.Plans))}
	for i, p := range file.Plans {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("plan %d: id is required", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("plan %s: duplicate id", p.ID)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("plan %s: price must be positive", p.ID)
		}
		switch p.Kind {
		case domain.PlanCredits:
			if p.Credits <= 0 {
				return nil, fmt.Errorf("plan %s: credits must be positive", p.ID)
			}
		case domain.PlanSubscription:
			p.Credits = 0
		default:
			return nil, fmt.Errorf("plan %s: unknown kind %q", p.ID, p.Kind)
		}
		c.byID[p.ID] = p
		c.plans = append(c.plans, p)
	}
	if len(c.plans) == 0 {
		return nil, fmt.Errorf("pricing catalog has no plans")
	}
	sort.SliceStable(c.plans, func(i, j int) bool { return c.plans[i].Price < c.plans[j].Price })
	return c, nil
}

func (c *Catalog) Plan(id string) (Plan, bool) {
	p, ok := c.byID[strings.TrimSpace(id)]
	return p, ok
}

// Plans returns the catalog ordered by price.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}
