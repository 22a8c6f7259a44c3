package resolve

// ArtifactType describes how artifacts of a given packaging are
// handled: the file extension they use, the classifier they carry, and
// how they participate in dependency resolution.
type ArtifactType struct {
	ID                   string
	Extension            string
	Classifier           string
	Language             string
	IncludesDependencies bool
	ConstitutesBuildPath bool
}

// HandlerCatalog enumerates the artifact types known to the host.
type HandlerCatalog interface {
	ArtifactTypes() []ArtifactType
}

// ArtifactTypeRegistry is an id-keyed view over a handler catalog,
// built once per session.
type ArtifactTypeRegistry struct {
	types map[string]ArtifactType
}

// NewArtifactTypeRegistry builds the registry from the catalog.
func NewArtifactTypeRegistry(catalog HandlerCatalog) *ArtifactTypeRegistry {
	registry := &ArtifactTypeRegistry{types: make(map[string]ArtifactType)}
	if catalog != nil {
		for _, t := range catalog.ArtifactTypes() {
			registry.types[t.ID] = t
		}
	}
	return registry
}

// Get returns the artifact type for the given id.
func (r *ArtifactTypeRegistry) Get(id string) (ArtifactType, bool) {
	t, ok := r.types[id]
	return t, ok
}

// DefaultHandlerCatalog carries the stock artifact types.
type DefaultHandlerCatalog struct{}

// ArtifactTypes implements HandlerCatalog.
func (DefaultHandlerCatalog) ArtifactTypes() []ArtifactType {
	return []ArtifactType{
		{ID: "pom", Extension: "pom", Language: "none"},
		{ID: "jar", Extension: "jar", Language: "java", ConstitutesBuildPath: true},
		{ID: "ejb", Extension: "jar", Language: "java", ConstitutesBuildPath: true},
		{ID: "ejb-client", Extension: "jar", Classifier: "client", Language: "java", ConstitutesBuildPath: true},
		{ID: "test-jar", Extension: "jar", Classifier: "tests", Language: "java", ConstitutesBuildPath: true},
		{ID: "maven-plugin", Extension: "jar", Language: "java", ConstitutesBuildPath: true},
		{ID: "war", Extension: "war", Language: "java", IncludesDependencies: true},
		{ID: "ear", Extension: "ear", Language: "java", IncludesDependencies: true},
		{ID: "rar", Extension: "rar", Language: "java", IncludesDependencies: true},
		{ID: "java-source", Extension: "jar", Classifier: "sources", Language: "java"},
		{ID: "javadoc", Extension: "jar", Classifier: "javadoc", Language: "java", ConstitutesBuildPath: true},
	}
}
