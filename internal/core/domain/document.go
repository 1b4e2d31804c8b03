package domain

// Document is metadata about a file attached to a project. Its presence
// blocks deletion of the project.
type Document struct {
	Ownership     `bson:",inline"`
	Name          string `json:"name" bson:"name"`
	Description   string `json:"description,omitempty" bson:"description,omitempty"`
	Type          string `json:"type" bson:"type"`
	Status        string `json:"status" bson:"status"`
	ContentType   string `json:"contentType,omitempty" bson:"content_type,omitempty"`
	StoragePath   string `json:"storagePath,omitempty" bson:"storage_path,omitempty"`
	SizeInBytes   int64  `json:"sizeInBytes" bson:"size_in_bytes"`
	ProjectID     string `json:"projectId" bson:"project_id"`
	IsAIGenerated bool   `json:"isAiGenerated" bson:"is_ai_generated"`
}
