package service

// SetPasswordCompare replaces the bcrypt comparison used by Login
func SetPasswordCompare(s *AuthService, compare func(hash, password []byte) error) {
	s.compare = compare
}
