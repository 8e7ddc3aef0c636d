package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

// AccessClaims is what every access token carries: sub, rol and persona_id.
type AccessClaims struct {
	Rol       models.Role `json:"rol"`
	PersonaID uint        `json:"persona_id"`
	jwt.RegisteredClaims
}

type Issuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{Secret: secret, TTL: ttl, Now: time.Now}
}

func (i *Issuer) Issue(personaID uint, rol models.Role) (string, error) {
	now := i.Now()
	claims := AccessClaims{
		Rol:       rol,
		PersonaID: personaID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(personaID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.Secret)
}

// KeyFunc only accepts HS256 and returns the issuer's secret.
func (i *Issuer) KeyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, errors.New("unexpected sign method")
	}
	return i.Secret, nil
}

func (i *Issuer) Parse(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, i.KeyFunc)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
