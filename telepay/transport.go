package telepay

import "net/http"

//go:generate mockgen -source=transport.go -destination=mocks/doer.go -package=mocks

// Doer is the minimal transport contract the client needs. *http.Client
// satisfies it; tests substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
