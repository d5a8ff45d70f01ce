package configuration

type Config struct {
	TagTypes               []*TagType               `yaml:"tagTypes,omitempty"`
	Rendering              *Rendering               `yaml:"rendering,omitempty"`
	PackageSourceProviders []*PackageSourceProvider `yaml:"packageSourceProviders"`
	PackageSources         []*PackageSource         `yaml:"packageSources"`
	Targets                []*Target                `yaml:"targets"`
}

// TagType registers an additional tag keyword, or overrides the weight of a
// bundled one.
type TagType struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
	Short  string `yaml:"short,omitempty"`
}

type Rendering struct {
	Separator    string `yaml:"separator,omitempty"`
	TagUppercase bool   `yaml:"tagUppercase,omitempty"`
}

type PackageSourceType string

const (
	PackageSourceTypeGitRelease    PackageSourceType = "git-release"
	PackageSourceTypeGitTag        PackageSourceType = "git-tag"
	PackageSourceTypeGitRepository PackageSourceType = "git-repository"
)

type SortBy string

const (
	SortByBuildNumber  SortBy = "build-number"
	SortByAlphabetical SortBy = "alphabetical"
)

type PackageSource struct {
	Name              string                  `yaml:"name"`
	Provider          string                  `yaml:"provider"`
	Type              PackageSourceType       `yaml:"type"`
	URI               string                  `yaml:"uri"`
	VersionConstraint string                  `yaml:"versionConstraint,omitempty"` // semver constraint on the normalized version, e.g. ">= 2.0, < 3.0"
	TagPattern        string                  `yaml:"tagPattern,omitempty"`        // Regex to match desired tags
	ExcludePattern    string                  `yaml:"excludePattern,omitempty"`    // Regex to exclude unwanted tags
	TagLimit          int                     `yaml:"tagLimit,omitempty"`          // Maximum number of tags to fetch (before filtering)
	SortBy            SortBy                  `yaml:"sortBy,omitempty"`
	StableOnly        bool                    `yaml:"stableOnly,omitempty"`
	Versions          []*PackageSourceVersion `yaml:"versions,omitempty"`
}

type PackageSourceVersion struct {
	Version            string `yaml:"version" json:"version"`
	VersionInformation string `yaml:"versionInformation,omitempty" json:"versionInformation,omitempty"`
	Normalized         string `yaml:"normalized" json:"normalized"`
	MajorVersion       int    `yaml:"majorVersion" json:"majorVersion"`
	MinorVersion       int    `yaml:"minorVersion" json:"minorVersion"`
	PatchVersion       int    `yaml:"patchVersion" json:"patchVersion"`
	TagType            string `yaml:"tagType,omitempty" json:"tagType,omitempty"`
	TagNumber          int    `yaml:"tagNumber,omitempty" json:"tagNumber,omitempty"`
	Branch             string `yaml:"branch,omitempty" json:"branch,omitempty"`
	BuildNumber        int64  `yaml:"buildNumber" json:"buildNumber"`
}

type PackageSourceProviderType string

const (
	PackageSourceProviderTypeGitHub PackageSourceProviderType = "github"
	PackageSourceProviderTypeGit    PackageSourceProviderType = "git"
)

type PackageSourceProviderAuthType string

const (
	PackageSourceProviderAuthTypeNone  PackageSourceProviderAuthType = "none"
	PackageSourceProviderAuthTypeBasic PackageSourceProviderAuthType = "basic"
	PackageSourceProviderAuthTypeToken PackageSourceProviderAuthType = "token"
)

type PackageSourceProvider struct {
	Name     string                        `yaml:"name"`
	Type     PackageSourceProviderType     `yaml:"type"`
	BaseUrl  string                        `yaml:"baseUrl,omitempty"`
	AuthType PackageSourceProviderAuthType `yaml:"authType,omitempty"`
	Username string                        `yaml:"username,omitempty"`
	Password string                        `yaml:"password,omitempty"`
	Token    string                        `yaml:"token,omitempty"`
}

type TargetType string

const (
	TargetTypeLiteral   TargetType = "literal"
	TargetTypeYamlField TargetType = "yaml-field"
)

type Target struct {
	Name   string       `yaml:"name"`
	Type   TargetType   `yaml:"type"`
	File   string       `yaml:"file,omitempty"`
	Items  []TargetItem `yaml:"items"`
	Labels []string     `yaml:"labels,omitempty"`

	WildcardPattern string `yaml:"-"` // Original pattern if this target was expanded from a wildcard
	IsWildcardMatch bool   `yaml:"-"`
}

type TargetItem struct {
	Name           string   `yaml:"name,omitempty"`
	Source         string   `yaml:"source"`
	CurrentVersion string   `yaml:"currentVersion,omitempty"` // literal targets
	YamlPath       string   `yaml:"yamlPath,omitempty"`       // yaml-field targets, e.g. "image.tag"
	Labels         []string `yaml:"labels,omitempty"`
}
