package ports

// IdentityPort yields the build identity used to namespace sysroot image
// tags, normally the name of the invoking OS user.
type IdentityPort interface {
	Identity() (string, error)
}
