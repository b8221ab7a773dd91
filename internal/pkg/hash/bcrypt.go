package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher define a capacidade opaca de hash unidirecional de senhas.
// Os serviços recebem esta interface por construtor; o algoritmo concreto
// é um detalhe de infraestrutura.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext string, hash string) bool
}

// BcryptHasher implementa PasswordHasher com bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cria um hasher com o custo padrão do bcrypt.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash gera um hash forte para a senha informada.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}
	return string(hashed), nil
}

// Matches compara a senha em texto puro com o hash armazenado.
func (h *BcryptHasher) Matches(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
