package permission

type AvailablePermissionsResponse struct {
	Permissions []string `json:"permissions"`
	Categories  []string `json:"categories"`
}

type EffectivePermissionsResponse struct {
	UserID      string   `json:"user_id"`
	DocumentID  string   `json:"document_id,omitempty"`
	Permissions []string `json:"permissions"`
}

type PermissionCheckResponse struct {
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id"`
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

type AccessibleCategoriesResponse struct {
	CategoryIDs []string `json:"category_ids"`
}
