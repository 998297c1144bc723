package cache

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SceneKey identifies a laid-out scene of one dataset.
	SceneKey(datasetHash string, opts SceneKeyOpts) string

	// ArtifactKey identifies one rendered output of a scene.
	ArtifactKey(sceneKey string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts holds every option that changes the scene.
type SceneKeyOpts struct {
	Root        string  `json:"root"`
	Mode        string  `json:"mode"`
	Generations int     `json:"generations"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodeHeight  float64 `json:"node_height,omitempty"`
	HGap        float64 `json:"h_gap,omitempty"`
	VGap        float64 `json:"v_gap,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered output.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey returns "scene:<hash>".
func (k *DefaultKeyer) SceneKey(datasetHash string, opts SceneKeyOpts) string {
	return hashKey("scene", datasetHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (k *DefaultKeyer) ArtifactKey(sceneKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneKey, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
