// Package analytics ranks products by purchase frequency.
package analytics

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/GTDGit/catalog_assistant/internal/models"
)

// Default result sizes.
const (
	DefaultTrendingLimit = 5
	RelatedLimit         = 5
)

// TopTrending returns up to n products ordered by purchase count across the
// whole log. Equal counts keep the order in which products first appear.
func TopTrending(records []models.PurchaseRecord, n int) []models.ProductCount {
	counts := newCounter()
	for _, r := range records {
		counts.add(r.ProductName)
	}
	return counts.mostCommon(n)
}

// RelatedProducts returns up to RelatedLimit products purchased in category,
// ranked like TopTrending, never including selected itself.
func RelatedProducts(selected, category string, records []models.PurchaseRecord) []models.ProductCount {
	counts := newCounter()
	for _, r := range records {
		if r.Category == category {
			counts.add(r.ProductName)
		}
	}
	counts.remove(selected)
	return counts.mostCommon(RelatedLimit)
}

// Fingerprint hashes a purchase log so reloads can detect changes.
func Fingerprint(records []models.PurchaseRecord) uint64 {
	d := xxhash.New()
	for _, r := range records {
		_, _ = d.WriteString(r.ProductName + "\x1f" + r.Category + "\x1e")
	}
	return d.Sum64()
}

// counter tallies names and remembers first-seen order for tie breaks.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if name == "" {
		return
	}
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) remove(name string) {
	if _, ok := c.counts[name]; !ok {
		return
	}
	delete(c.counts, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *counter) mostCommon(n int) []models.ProductCount {
	if n <= 0 || len(c.order) == 0 {
		return []models.ProductCount{}
	}

	ranked := make([]models.ProductCount, 0, len(c.order))
	for _, name := range c.order {
		ranked = append(ranked, models.ProductCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
