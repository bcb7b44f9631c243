package model

// Credential is one entry of the credential store, keyed by email.
type Credential struct {
	Password string `json:"password"`
	User     User   `json:"user"`
}

// Credentials maps email to its credential entry.
type Credentials map[string]Credential
