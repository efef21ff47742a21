package permission

type CatalogResponse struct {
	Permissions []Definition `json:"permissions"`
}

type EffectivePermissionsResponse struct {
	UserID      int64    `json:"user_id"`
	Permissions []string `json:"permissions"`
}

// ResolutionResponse breaks the effective set down by grant path.
type ResolutionResponse struct {
	UserID    int64    `json:"user_id"`
	Effective []string `json:"effective"`
	Direct    []string `json:"direct"`
	FromRoles []string `json:"from_roles"`
	FromStaff []string `json:"from_staff"`
}

type GrantsResponse struct {
	Subject     Subject  `json:"subject"`
	SubjectID   int64    `json:"subject_id"`
	Permissions []string `json:"permissions"`
}

type ChangeResponse struct {
	Subject    Subject `json:"subject"`
	SubjectID  int64   `json:"subject_id"`
	Permission string  `json:"permission"`
	Changed    bool    `json:"changed"`
}

func (r *Resolution) ToResponse(userID int64) ResolutionResponse {
	return ResolutionResponse{
		UserID:    userID,
		Effective: r.Effective.Names(),
		Direct:    r.Direct.Names(),
		FromRoles: r.FromRoles.Names(),
		FromStaff: r.FromStaff.Names(),
	}
}
