package rbac

import "github.com/gHoSTeCHs/shelfwiser-sub002/internal/domain"

// Aliases keep the wire shapes in one place while the service speaks the
// domain types the middleware uses.
type (
	EnforceRequest  = domain.EnforceRequest
	EnforceResponse = domain.EnforceResponse
)

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=60"`
	Description string   `json:"description" binding:"omitempty,max=255"`
	Permissions []string `json:"permissions"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	Category string `json:"category"`
}
