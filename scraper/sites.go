package scraper

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jobgenie/backend/models"
)

//go:embed sites.yaml
var defaultSites []byte

// FieldSelectors lists selectors per ScrapedJob field
type FieldSelectors struct {
	Title          []string `yaml:"title"`
	Company        []string `yaml:"company"`
	Location       []string `yaml:"location"`
	Description    []string `yaml:"description"`
	Salary         []string `yaml:"salary"`
	EmploymentType []string `yaml:"employment_type"`
	Posted         []string `yaml:"posted"`
}

// ListSelectors describes the job cards of a search result page
type ListSelectors struct {
	Card     []string `yaml:"card"`
	Link     []string `yaml:"link"`
	Title    []string `yaml:"title"`
	Company  []string `yaml:"company"`
	Location []string `yaml:"location"`
}

// SiteConfig is one row of the selector table
type SiteConfig struct {
	Name      string         `yaml:"name"`
	Hosts     []string       `yaml:"hosts"`
	ListPaths []string       `yaml:"list_paths"`
	Single    FieldSelectors `yaml:"single"`
	List      ListSelectors  `yaml:"list"`
}

type sitesFile struct {
	Sites []SiteConfig `yaml:"sites"`
}

// ParseSites decodes a selector table
func ParseSites(data []byte) ([]SiteConfig, error) {
	var f sitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse site table: %w", err)
	}
	for i, s := range f.Sites {
		if s.Name == "" || len(s.Hosts) == 0 {
			return nil, fmt.Errorf("site entry %d needs a name and at least one host", i)
		}
	}
	return f.Sites, nil
}

// Page is what a strategy found on a document: a single posting, a list of
// posting links, or neither
type Page struct {
	Job  *models.ScrapedJob
	Jobs []models.ScrapedJob
}

// Strategy extracts job data from a parsed document
type Strategy interface {
	Name() string
	Extract(doc *Document) Page
}

// HostMatcher selects a strategy for a hostname
type HostMatcher func(host string) bool

// MatchHosts matches a host equal to, or a subdomain of, any of hosts
func MatchHosts(hosts ...string) HostMatcher {
	return func(host string) bool {
		host = strings.ToLower(strings.TrimSuffix(host, "."))
		for _, h := range hosts {
			h = strings.ToLower(h)
			if host == h || strings.HasSuffix(host, "."+h) {
				return true
			}
		}
		return false
	}
}

type registryEntry struct {
	match    HostMatcher
	strategy Strategy
}

// Registry maps hosts to extraction strategies. Lookups that match no entry
// get the generic strategy.
type Registry struct {
	entries  []registryEntry
	fallback Strategy
}

// NewRegistry builds a registry from a selector table
func NewRegistry(sites []SiteConfig) *Registry {
	r := &Registry{fallback: genericStrategy{}}
	for _, s := range sites {
		r.Register(MatchHosts(s.Hosts...), &selectorStrategy{site: s})
	}
	return r
}

// DefaultRegistry is built from the embedded selector table
func DefaultRegistry() (*Registry, error) {
	sites, err := ParseSites(defaultSites)
	if err != nil {
		return nil, err
	}
	return NewRegistry(sites), nil
}

// LoadRegistry reads the selector table at path, or the embedded one when
// path is empty
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site table: %w", err)
	}
	sites, err := ParseSites(data)
	if err != nil {
		return nil, err
	}
	return NewRegistry(sites), nil
}

// Register adds a strategy. Earlier registrations win.
func (r *Registry) Register(match HostMatcher, s Strategy) {
	r.entries = append(r.entries, registryEntry{match: match, strategy: s})
}

// Lookup returns the strategy for host
func (r *Registry) Lookup(host string) Strategy {
	for _, e := range r.entries {
		if e.match(host) {
			return e.strategy
		}
	}
	return r.fallback
}
