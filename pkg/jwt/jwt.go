package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin es el único rol autorizado para consultar la analítica.
const RoleAdmin = "admin"

// Claims incluye los claims estándar JWT más los campos que emiten los servicios de la tienda.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "admin" | "customer"
}

// Generate genera un token JWT firmado con userID y role.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID y role.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	userID = claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return userID, claims.Role, nil
}

// ServiceTokenSource firma tokens de servicio para las llamadas a los endpoints de administración
// de los otros servicios. Reutiliza el token hasta un minuto antes de su expiración.
type ServiceTokenSource struct {
	secret     string
	issuer     string
	subject    string
	expMinutes int

	now     func() time.Time
	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewServiceTokenSource construye la fuente; devuelve nil si no hay secret configurado.
func NewServiceTokenSource(secret, issuer, subject string, expMinutes int) *ServiceTokenSource {
	if secret == "" {
		return nil
	}
	if expMinutes <= 1 {
		expMinutes = 5
	}
	return &ServiceTokenSource{
		secret:     secret,
		issuer:     issuer,
		subject:    subject,
		expMinutes: expMinutes,
		now:        time.Now,
	}
}

// Token devuelve un token vigente con rol admin.
func (s *ServiceTokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Before(s.expires.Add(-time.Minute)) {
		return s.token, nil
	}
	tok, err := Generate(s.secret, s.subject, RoleAdmin, s.issuer, s.expMinutes)
	if err != nil {
		return "", err
	}
	s.token = tok
	s.expires = now.Add(time.Duration(s.expMinutes) * time.Minute)
	return tok, nil
}
