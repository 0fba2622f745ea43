package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Papéis emitidos pelo serviço de autenticação externo
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClient  = "client"
)

// Claims é o payload dos tokens emitidos pelo backend hospedado.
// A API apenas valida o token, não emite.
type Claims struct {
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	ProjectIDs []string `json:"project_ids"`
	jwt.RegisteredClaims
}

// CanAccessProject indica se o usuário enxerga o projeto informado
func (c *Claims) CanAccessProject(projectID string) bool {
	if c.Role == RoleAdmin || c.Role == RoleManager {
		return true
	}
	for _, id := range c.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}
