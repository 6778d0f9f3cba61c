package stdmsg

import (
	"fmt"
)

const DefaultToken = "SUI"

// Application binds envelopes to one application instance and network.
type Application struct {
	Domain  string
	Version string
	ChainID string
}

// Envelope wraps payload for address with the application constants.
func (a Application) Envelope(payload, address string) (*Envelope, error) {
	return New(payload, address, a.Domain, a.Version, a.ChainID)
}

func TransferMessage(from, to, amount, token string) string {
	if token == "" {
		token = DefaultToken
	}
	return fmt.Sprintf("Transfer %s %s from %s to %s", amount, token, from, to)
}

func VoteMessage(proposalID string, inFavor bool) string {
	choice := "AGAINST"
	if inFavor {
		choice = "FOR"
	}
	return fmt.Sprintf("Vote %s proposal %s", choice, proposalID)
}

func AuthorizationMessage(action, target string) string {
	if target == "" {
		return fmt.Sprintf("Authorize %s", action)
	}
	return fmt.Sprintf("Authorize %s for %s", action, target)
}

// Transfer builds the envelope a sender signs to approve a token transfer.
func (a Application) Transfer(from, to, amount, token string) (*Envelope, error) {
	return a.Envelope(TransferMessage(from, to, amount, token), from)
}

// Vote builds the envelope a voter signs to cast a vote on a proposal.
func (a Application) Vote(voter, proposalID string, inFavor bool) (*Envelope, error) {
	return a.Envelope(VoteMessage(proposalID, inFavor), voter)
}

// Authorization builds the envelope a user signs to authorize an action,
// optionally against a target address.
func (a Application) Authorization(user, action, target string) (*Envelope, error) {
	return a.Envelope(AuthorizationMessage(action, target), user)
}
