// internal/auth/service.go
package auth

import (
	"errors"
	"log"
)

var ErrWrongPassword = errors.New("wrong password")

// Service gates the admin screens behind a single configured password.
// It is a plain comparison and a UI gate only.
type Service struct {
	password string
}

func NewService(password string) *Service {
	return &Service{password: password}
}

func (s *Service) Login(password string) error {
	if password != s.password {
		log.Printf("Admin login rejected")
		return ErrWrongPassword
	}
	log.Printf("Admin login accepted")
	return nil
}
