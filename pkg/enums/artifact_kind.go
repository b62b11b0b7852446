package enums

// ArtifactKind names a derived export file produced from a persisted batch.
type ArtifactKind string

const (
	ArtifactKindManifest ArtifactKind = "manifest"
	ArtifactKindReport   ArtifactKind = "report"
)

func (k ArtifactKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k ArtifactKind) IsValid() bool {
	return k == ArtifactKindManifest || k == ArtifactKindReport
}
