// Package auth implementa la puerta de acceso: una credencial compartida del
// operador, comparada contra un hash bcrypt, que habilita el resto de operaciones.
package auth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/pkg/jwt"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// OperatorSubject subject de los tokens emitidos. No hay cuentas de usuario.
const OperatorSubject = "operador"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AccessGate verifica la credencial compartida y emite tokens de sesión.
type AccessGate struct {
	hash   []byte
	jwtCfg JWTConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewAccessGate construye la puerta. Si passwordHash está vacío se hashea
// password en el arranque (solo desarrollo).
func NewAccessGate(passwordHash, password string, jwtCfg JWTConfig, log *logger.Logger) (*AccessGate, error) {
	if log == nil {
		log = logger.Nop()
	}
	hash := []byte(passwordHash)
	if passwordHash == "" {
		if password == "" {
			return nil, errors.New("auth: credencial del operador no configurada")
		}
		h, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		hash = []byte(h)
		log.Warn().Msg("usando ACCESS_PASSWORD en claro; definir ACCESS_PASSWORD_HASH en producción")
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, errors.New("auth: ACCESS_PASSWORD_HASH no es un hash bcrypt válido")
	}
	return &AccessGate{hash: hash, jwtCfg: jwtCfg, log: log.Component("auth"), now: time.Now}, nil
}

// HashPassword genera el hash bcrypt para ACCESS_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Authorize compara la credencial enviada con la configurada.
func (g *AccessGate) Authorize(credential string) bool {
	if credential == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(g.hash, []byte(credential)) == nil
}

// Login verifica la credencial y devuelve un JWT de sesión.
func (g *AccessGate) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !g.Authorize(in.Password) {
		g.log.Warn().Msg("intento de acceso rechazado")
		return nil, domain.ErrUnauthorized
	}
	expires := g.now().Add(time.Duration(g.jwtCfg.ExpMinutes) * time.Minute)
	token, err := jwt.Generate(g.jwtCfg.Secret, OperatorSubject, g.jwtCfg.Issuer, g.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	g.log.Info().Msg("sesión iniciada")
	return &dto.LoginResponse{Token: token, ExpiresAt: expires}, nil
}
