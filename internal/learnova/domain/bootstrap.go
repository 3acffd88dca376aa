package domain

// BootstrapData describes the first administrator of a fresh deployment.
type BootstrapData struct {
	AdminEmail    string
	AdminFullName string
	AdminPassword string
}
