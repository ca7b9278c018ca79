package config

import "golang.org/x/crypto/bcrypt"

// HashPassword takes a plaintext password and returns a bcrypt hash.  If
// hashing fails the program panics because it is a programmer error.
func HashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// CheckPasswordHash verifies a plaintext password against a stored bcrypt
// hash.  It returns nil if the password matches, or an error otherwise.
func CheckPasswordHash(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
