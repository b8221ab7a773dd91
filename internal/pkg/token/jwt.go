package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"controlpet/internal/domain"
)

// Erros exportados do serviço de token. As falhas de parse/assinatura/claims
// são encapsuladas nestes dois sentinelas; o chamador (middleware) colapsa
// ambos em 401 sem repassar detalhes.
var (
	// ErrTokenInvalido cobre assinatura inválida, emissor errado, método de
	// assinatura inesperado e expiração no passado.
	ErrTokenInvalido = errors.New("token inválido")
	// ErrClaimInvalida cobre claims ausentes ou com valores fora do esperado
	// (e.g., tipo de usuário não reconhecido).
	ErrClaimInvalida = errors.New("claim inválida no token")
)

const issuer = "login-auth-api"

// tokenTTL é a validade absoluta de cada token emitido.
const tokenTTL = 2 * time.Hour

// fusoEmissao é o fuso de offset fixo usado no cálculo da expiração.
// A expiração é sempre calculada em -03:00, nunca no fuso local do host:
// as comparações de expiração feitas por consumidores do token dependem
// deste offset fixo.
var fusoEmissao = time.FixedZone("-03:00", -3*60*60)

// CustomClaims define as informações embutidas no JWT.
// O formato de fio é fixo: subject = email, claims id/nome/tipo.
type CustomClaims struct {
	UserID int    `json:"id"`
	Nome   string `json:"nome"`
	Tipo   string `json:"tipo"`
	jwt.RegisteredClaims
}

// Identity é o registro de identidade reconstruído a partir das claims do
// token, sem consulta ao banco. Por ser um retrato do momento da emissão,
// o chamador deve rebuscar o Usuario autoritativo no banco antes de qualquer
// decisão sensível: uma troca de senha ou de papel posterior à emissão não
// se reflete em tokens já emitidos até que expirem naturalmente (≤2h).
// Essa janela de exposição é aceita neste design; não há blacklist nem
// revogação do lado do servidor.
type Identity struct {
	ID    int
	Nome  string
	Email string
	Tipo  domain.TipoUsuario
}

// Service emite e valida JWTs assinados com HS256.
type Service struct {
	secretKey []byte
}

// NewService cria uma nova instância do serviço de token.
func NewService(secretKey string) *Service {
	return &Service{secretKey: []byte(secretKey)}
}

// GenerateToken cria um novo JWT assinado para o usuário informado.
func (s *Service) GenerateToken(user domain.Usuario) (string, error) {
	now := time.Now().In(fusoEmissao)

	claims := CustomClaims{
		UserID: user.ID,
		Nome:   user.Nome,
		Tipo:   string(user.Tipo),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token e retorna o subject (email) se for válido.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// DecodeIdentity valida o token e reconstrói a identidade embutida nas claims.
// Uma claim "tipo" ausente ou fora do enum é falha de verificação, nunca um
// papel padrão: assumir um default aqui abriria escalação de privilégio.
func (s *Service) DecodeIdentity(tokenString string) (Identity, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return Identity{}, err
	}

	tipo, err := domain.ParseTipoUsuario(claims.Tipo)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrClaimInvalida, err)
	}

	return Identity{
		ID:    claims.UserID,
		Nome:  claims.Nome,
		Email: claims.Subject,
		Tipo:  tipo,
	}, nil
}

// parseClaims faz o parse e a verificação completa do token: método de
// assinatura, assinatura, emissor e expiração.
func (s *Service) parseClaims(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verifica se o método de assinatura é o esperado (HS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		// Token expirado, assinatura inválida, malformado etc.
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalido, err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalido
	}

	if claims.Issuer != issuer {
		return nil, fmt.Errorf("%w: emissor inesperado", ErrTokenInvalido)
	}

	return claims, nil
}
