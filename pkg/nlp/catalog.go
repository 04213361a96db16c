package nlp

import (
	"fmt"
	"strings"
)

// Catalog is the read-only product table. Brand and model order is
// significant: classification and history resolution break ties by it.
type Catalog struct {
	brands []Brand
	models []Model
	index  map[string]Model
}

func NewCatalog(brands []Brand) *Catalog {
	c := &Catalog{
		brands: make([]Brand, 0, len(brands)),
		index:  make(map[string]Model),
	}

	for _, b := range brands {
		brand := Brand{Name: strings.ToLower(b.Name), Models: make([]Model, 0, len(b.Models))}
		for _, m := range b.Models {
			m.Brand = brand.Name
			brand.Models = append(brand.Models, m)
			c.models = append(c.models, m)
			c.index[m.Name] = m
		}
		c.brands = append(c.brands, brand)
	}

	return c
}

func DefaultCatalog() *Catalog {
	return NewCatalog([]Brand{
		{
			Name: "dell",
			Models: []Model{
				{Name: "Dell Inspiron 15", Specification: Specification{Price: 800, RAM: "16GB", Storage: "512GB SSD"}},
				{Name: "Dell XPS 13", Specification: Specification{Price: 1200, RAM: "16GB", Storage: "1TB SSD", Extra: "pantalla 4K"}},
				{Name: "Dell Alienware M15", Specification: Specification{Price: 1800, RAM: "32GB", Storage: "1TB SSD", Extra: "RTX 3070"}},
			},
		},
		{
			Name: "hp",
			Models: []Model{
				{Name: "HP Pavilion", Specification: Specification{Price: 600, RAM: "8GB", Storage: "1TB HDD"}},
				{Name: "HP Envy 13", Specification: Specification{Price: 950, RAM: "16GB", Storage: "512GB SSD", Extra: "pantalla táctil"}},
				{Name: "HP Omen 16", Specification: Specification{Price: 1500, RAM: "32GB", Storage: "1TB SSD", Extra: "RTX 3060"}},
			},
		},
		{
			Name: "lenovo",
			Models: []Model{
				{Name: "Lenovo ThinkPad X1 Carbon", Specification: Specification{Price: 1200, RAM: "32GB", Storage: "1TB SSD"}},
				{Name: "Lenovo IdeaPad 5", Specification: Specification{Price: 700, RAM: "8GB", Storage: "512GB SSD"}},
				{Name: "Lenovo Legion 5 Pro", Specification: Specification{Price: 1600, RAM: "32GB", Storage: "1TB SSD", Extra: "RTX 3070"}},
			},
		},
	})
}

func (c *Catalog) Brands() []Brand {
	return c.brands
}

func (c *Catalog) Models() []Model {
	return c.models
}

func (c *Catalog) Brand(name string) (Brand, bool) {
	name = strings.ToLower(name)
	for _, b := range c.brands {
		if b.Name == name {
			return b, true
		}
	}
	return Brand{}, false
}

func (c *Catalog) Lookup(name string) (Model, bool) {
	m, ok := c.index[name]
	return m, ok
}

// Context renders one line per model for the generative fallback prompt.
func (c *Catalog) Context() string {
	var sb strings.Builder
	for i, m := range c.models {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s: $%d, %s, %s", m.Name, m.Price, m.RAM, m.Storage)
		if m.Extra != "" {
			fmt.Fprintf(&sb, " (%s)", m.Extra)
		}
	}
	return sb.String()
}

func nameWords(name string) []string {
	return strings.Fields(strings.ToLower(name))
}

// wordHits counts the words of a model name found as substrings of text.
// text must already be lower-cased.
func wordHits(text, name string) int {
	hits := 0
	for _, w := range nameWords(name) {
		if strings.Contains(text, w) {
			hits++
		}
	}
	return hits
}

// modelByOverlap returns the first model, in catalog order, with a name of
// at least two words and at least two of them present in text.
func (c *Catalog) modelByOverlap(text string) (Model, bool) {
	for _, m := range c.models {
		if len(nameWords(m.Name)) < 2 {
			continue
		}
		if wordHits(text, m.Name) >= 2 {
			return m, true
		}
	}
	return Model{}, false
}

// modelByAnyWord returns the first model sharing any name word with text.
func (c *Catalog) modelByAnyWord(text string) (Model, bool) {
	for _, m := range c.models {
		if wordHits(text, m.Name) > 0 {
			return m, true
		}
	}
	return Model{}, false
}

// mentionedIn reports the first model whose full name, or every one of
// whose words, occurs in text.
func (c *Catalog) mentionedIn(text string) (Model, bool) {
	text = strings.ToLower(text)
	for _, m := range c.models {
		name := strings.ToLower(m.Name)
		if strings.Contains(text, name) {
			return m, true
		}
		words := nameWords(name)
		if len(words) > 0 && wordHits(text, name) == len(words) {
			return m, true
		}
	}
	return Model{}, false
}
