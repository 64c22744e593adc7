package match

import (
	"fmt"
	"strings"
)

// DomainKeyword maps a keyword found inside a required skill to a skill
// domain. Checked by substring against the lowercased skill.
type DomainKeyword struct {
	Keyword string `yaml:"keyword"`
	Domain  string `yaml:"domain"`
}

// Region groups place names that count as the same hiring region. Regions
// are checked in declaration order and match by substring, so narrower
// regions must come before broader ones.
type Region struct {
	Name   string   `yaml:"name"`
	Places []string `yaml:"places"`
}

// SeniorityKeyword assigns a 0-10 level to a keyword found in a job title.
// Checked in declaration order, first hit wins.
type SeniorityKeyword struct {
	Keyword string `yaml:"keyword"`
	Level   int    `yaml:"level"`
}

// Tables holds every lookup table the scorers consult. All entries are
// expected lowercased; Normalize enforces that after loading from YAML.
type Tables struct {
	SynonymGroups      [][]string          `yaml:"synonymGroups"`
	DomainKeywords     []DomainKeyword     `yaml:"domainKeywords"`
	DomainSkills       map[string][]string `yaml:"domainSkills"`
	Regions            []Region            `yaml:"regions"`
	RemotePreferences  []string            `yaml:"remotePreferences"`
	LocalRegion        string              `yaml:"localRegion"`
	SeniorityKeywords  []SeniorityKeyword  `yaml:"seniorityKeywords"`
	DefaultSeniority   int                 `yaml:"defaultSeniority"`
	TitleStopwords     []string            `yaml:"titleStopwords"`
	RelatedTitleGroups [][]string          `yaml:"relatedTitleGroups"`
}

// DefaultTables returns the built-in lookup tables.
func DefaultTables() *Tables {
	return &Tables{
		SynonymGroups: [][]string{
			{"python", "py"},
			{"javascript", "js", "typescript", "ts"},
			{"machine learning", "ml", "deep learning", "dl"},
			{"artificial intelligence", "ai"},
			{"amazon web services", "aws"},
			{"google cloud platform", "gcp", "google cloud"},
			{"microsoft azure", "azure"},
			{"kubernetes", "k8s"},
			{"docker", "containers", "containerization"},
			{"react", "reactjs", "react.js"},
			{"node", "nodejs", "node.js"},
			{"postgres", "postgresql"},
			{"mongo", "mongodb"},
		},
		DomainKeywords: []DomainKeyword{
			{"python", "backend"}, {"java", "backend"}, {"go", "backend"}, {"rust", "backend"},
			{"javascript", "frontend"}, {"react", "frontend"}, {"vue", "frontend"}, {"angular", "frontend"},
			{"typescript", "frontend"}, {"css", "frontend"}, {"html", "frontend"},
			{"aws", "cloud"}, {"azure", "cloud"}, {"gcp", "cloud"}, {"kubernetes", "cloud"}, {"docker", "cloud"},
			{"ml", "data"}, {"machine learning", "data"}, {"tensorflow", "data"}, {"pytorch", "data"},
			{"data science", "data"}, {"pandas", "data"}, {"spark", "data"}, {"sql", "data"},
			{"devops", "infra"}, {"ci/cd", "infra"}, {"jenkins", "infra"}, {"terraform", "infra"},
		},
		DomainSkills: map[string][]string{
			"backend":  {"python", "java", "go", "rust", "c++", "c#", "node", "express", "fastapi", "django", "flask"},
			"frontend": {"javascript", "react", "vue", "angular", "svelte", "typescript", "css", "html", "tailwind"},
			"cloud":    {"aws", "azure", "gcp", "kubernetes", "docker", "terraform", "cloudformation", "lambda", "ec2"},
			"data":     {"ml", "machine learning", "tensorflow", "pytorch", "pandas", "numpy", "spark", "sql", "etl", "databricks"},
			"infra":    {"devops", "ci/cd", "jenkins", "github actions", "ansible", "prometheus", "grafana"},
		},
		Regions: []Region{
			{"uae", []string{"uae", "dubai", "abu dhabi", "sharjah", "ajman", "fujairah", "ras al khaimah", "umm al quwain"}},
			{"gulf", []string{"saudi arabia", "ksa", "qatar", "bahrain", "kuwait", "oman"}},
			{"mena", []string{"egypt", "jordan", "lebanon", "morocco", "tunisia"}},
			{"us_west", []string{"san francisco", "sf", "bay area", "los angeles", "la", "seattle", "portland", "california", "ca"}},
			{"us_east", []string{"new york", "ny", "nyc", "boston", "dc", "washington", "miami", "atlanta"}},
			{"europe", []string{"london", "uk", "berlin", "germany", "paris", "france", "amsterdam", "netherlands"}},
			{"asia", []string{"singapore", "hong kong", "tokyo", "japan", "india", "bangalore", "mumbai"}},
			{"remote", []string{"remote", "anywhere", "distributed", "work from home", "wfh"}},
		},
		RemotePreferences: []string{"remote", "anywhere"},
		LocalRegion:       "uae",
		SeniorityKeywords: []SeniorityKeyword{
			{"intern", 0},
			{"junior", 1},
			{"associate", 2},
			{"mid", 3},
			{"senior", 4},
			{"staff", 5},
			{"principal", 6},
			{"lead", 5},
			{"manager", 5},
			{"director", 7},
			{"vp", 8},
			{"head", 7},
			{"chief", 9},
			{"cto", 9},
			{"ceo", 10},
		},
		DefaultSeniority: 3,
		TitleStopwords: []string{
			"senior", "junior", "lead", "staff", "principal", "the", "a", "an", "at", "in",
			"i", "ii", "iii", "1", "2", "3", "intern", "associate", "head", "director", "vp", "chief",
		},
		RelatedTitleGroups: [][]string{
			{"engineer", "developer", "programmer", "coder"},
			{"data scientist", "data analyst", "ml engineer", "machine learning"},
			{"devops", "sre", "site reliability", "platform engineer", "infrastructure"},
			{"frontend", "front-end", "ui", "ux", "web developer"},
			{"backend", "back-end", "api", "server"},
			{"fullstack", "full-stack", "full stack"},
			{"manager", "lead", "director", "head"},
			{"product", "pm", "product owner"},
		},
	}
}

// Normalize lowercases and trims every table entry in place so the scorers
// can compare without re-normalizing on each call.
func (t *Tables) Normalize() {
	for _, group := range t.SynonymGroups {
		lowerAll(group)
	}
	for i := range t.DomainKeywords {
		t.DomainKeywords[i].Keyword = lower(t.DomainKeywords[i].Keyword)
		t.DomainKeywords[i].Domain = lower(t.DomainKeywords[i].Domain)
	}
	for _, skills := range t.DomainSkills {
		lowerAll(skills)
	}
	for i := range t.Regions {
		t.Regions[i].Name = lower(t.Regions[i].Name)
		lowerAll(t.Regions[i].Places)
	}
	lowerAll(t.RemotePreferences)
	t.LocalRegion = lower(t.LocalRegion)
	for i := range t.SeniorityKeywords {
		t.SeniorityKeywords[i].Keyword = lower(t.SeniorityKeywords[i].Keyword)
	}
	lowerAll(t.TitleStopwords)
	for _, group := range t.RelatedTitleGroups {
		lowerAll(group)
	}
}

// Validate checks structural soundness of the tables.
func (t *Tables) Validate() error {
	if t == nil {
		return fmt.Errorf("tables are required")
	}
	for i, group := range t.SynonymGroups {
		if len(group) < 2 {
			return fmt.Errorf("synonym group %d needs at least two entries", i)
		}
	}
	for i, dk := range t.DomainKeywords {
		if dk.Keyword == "" || dk.Domain == "" {
			return fmt.Errorf("domain keyword %d is incomplete", i)
		}
		if _, ok := t.DomainSkills[dk.Domain]; !ok {
			return fmt.Errorf("domain keyword %q references unknown domain %q", dk.Keyword, dk.Domain)
		}
	}
	for i, r := range t.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d has no name", i)
		}
		if len(r.Places) == 0 {
			return fmt.Errorf("region %q has no places", r.Name)
		}
	}
	for i, sk := range t.SeniorityKeywords {
		if sk.Keyword == "" {
			return fmt.Errorf("seniority keyword %d is empty", i)
		}
		if sk.Level < 0 || sk.Level > 10 {
			return fmt.Errorf("seniority keyword %q level %d outside 0-10", sk.Keyword, sk.Level)
		}
	}
	if t.DefaultSeniority < 0 || t.DefaultSeniority > 10 {
		return fmt.Errorf("default seniority %d outside 0-10", t.DefaultSeniority)
	}
	return nil
}

// regionOf returns the first region whose place list matches the location by
// substring, or "" when none does.
func (t *Tables) regionOf(location string) string {
	for _, region := range t.Regions {
		for _, place := range region.Places {
			if strings.Contains(location, place) {
				return region.Name
			}
		}
	}
	return ""
}

// synonyms reports whether a and b appear in the same synonym group.
func (t *Tables) synonyms(a, b string) bool {
	for _, group := range t.SynonymGroups {
		if containsString(group, a) && containsString(group, b) {
			return true
		}
	}
	return false
}

// domainsOf collects the domains touched by the given skills, in table order.
func (t *Tables) domainsOf(skills []string) []string {
	seen := make(map[string]bool)
	var domains []string
	for _, dk := range t.DomainKeywords {
		if seen[dk.Domain] {
			continue
		}
		for _, skill := range skills {
			if strings.Contains(lower(skill), dk.Keyword) {
				seen[dk.Domain] = true
				domains = append(domains, dk.Domain)
				break
			}
		}
	}
	return domains
}

// skillInDomain reports whether the lowercased skill belongs to the domain.
func (t *Tables) skillInDomain(skill, domain string) bool {
	for _, ds := range t.DomainSkills[domain] {
		if strings.Contains(skill, ds) {
			return true
		}
	}
	return false
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(ss []string) {
	for i := range ss {
		ss[i] = lower(ss[i])
	}
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
