// Package stdlib is the registration catalog the core and the runtime agree
// on. A Registration names a built-in function/constant/extension method's
// Nova-visible signature plus the artifact and member the emitter's
// StaticCall(owner, method, descriptor, args) instruction should address —
// the compiler never links against, or knows the Go implementation behind,
// a single Registration.
package stdlib

import (
	"fmt"
	"sort"

	"github.com/novalang/novac/internal/types"
)

// Registration is one catalog entry: a canonical name, arity (-1 for
// variadic), the owning artifact, the target member on that artifact, a
// descriptor string identifying the target signature, and the Nova-visible
// function type used for type-checking call sites and LSP/docs.
type Registration struct {
	Name       string
	Arity      int
	Owner      string
	Method     string
	Descriptor string
	Signature  types.Function
}

func (r Registration) qualifiedKey() string {
	return r.Owner + "." + r.Name + "#" + fmt.Sprint(r.Arity)
}

// Catalog indexes every Registration by owning artifact and by the
// (owner, name, arity) key compile-time call resolution needs.
type Catalog struct {
	byOwner map[string][]Registration
	byKey   map[string]Registration
}

// NewCatalog builds an empty catalog; callers populate it with Register
// before the pipeline starts resolving calls against it.
func NewCatalog() *Catalog {
	return &Catalog{
		byOwner: make(map[string][]Registration),
		byKey:   make(map[string]Registration),
	}
}

// Register adds r to the catalog. A second registration under the same
// owner/name/arity replaces the first — later registrations win, matching
// how a host embedding the core may layer its own virtual packages over
// the built-in set.
func (c *Catalog) Register(r Registration) {
	key := r.qualifiedKey()
	if _, exists := c.byKey[key]; !exists {
		c.byOwner[r.Owner] = append(c.byOwner[r.Owner], r)
	} else {
		for i, existing := range c.byOwner[r.Owner] {
			if existing.qualifiedKey() == key {
				c.byOwner[r.Owner][i] = r
				break
			}
		}
	}
	c.byKey[key] = r
}

// Lookup resolves a call by owner/name/argCount. A variadic registration
// (Arity == -1) matches any argCount; an exact-arity registration only
// matches its own count.
func (c *Catalog) Lookup(owner, name string, argCount int) (Registration, bool) {
	if r, ok := c.byKey[owner+"."+name+"#"+fmt.Sprint(argCount)]; ok {
		return r, true
	}
	for _, r := range c.byOwner[owner] {
		if r.Name == name && r.Arity == -1 {
			return r, true
		}
	}
	return Registration{}, false
}

// Owners lists every registered artifact name in sorted order, useful for
// import resolution ("import lib/list") and for deterministic doc dumps.
func (c *Catalog) Owners() []string {
	owners := make([]string, 0, len(c.byOwner))
	for o := range c.byOwner {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners
}

// Members returns owner's registrations in declared name order.
func (c *Catalog) Members(owner string) []Registration {
	return c.byOwner[owner]
}
