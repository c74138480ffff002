package adapters

import (
	"os"
	"os/user"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-cross-compile/internal/ports"
)

// identityEnvVars are consulted in order before the password database,
// matching how login names are looked up by most POSIX tooling.
var identityEnvVars = []string{"LOGNAME", "USER", "LNAME", "USERNAME"}

// OSUserIdentityAdapter resolves the build identity to the login name of
// the invoking user.
type OSUserIdentityAdapter struct {
	Getenv  func(string) string
	Current func() (*user.User, error)
}

func NewOSUserIdentityAdapter() OSUserIdentityAdapter {
	return OSUserIdentityAdapter{Getenv: os.Getenv, Current: user.Current}
}

func (a OSUserIdentityAdapter) Identity() (string, error) {
	for _, key := range identityEnvVars {
		if value := strings.TrimSpace(a.Getenv(key)); value != "" {
			return value, nil
		}
	}
	current, err := a.Current()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to determine current user").
			WithCause(err)
	}
	if strings.TrimSpace(current.Username) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("current user has no username")
	}
	return current.Username, nil
}

// StaticIdentityAdapter returns a configured identity.
type StaticIdentityAdapter struct {
	Value string
}

func NewStaticIdentityAdapter(value string) StaticIdentityAdapter {
	return StaticIdentityAdapter{Value: value}
}

func (a StaticIdentityAdapter) Identity() (string, error) {
	value := strings.TrimSpace(a.Value)
	if value == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("build identity is empty")
	}
	return value, nil
}

var (
	_ ports.IdentityPort = OSUserIdentityAdapter{}
	_ ports.IdentityPort = StaticIdentityAdapter{}
)
