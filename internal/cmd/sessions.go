package cmd

// SessionsCmd inspects tracked sessions
type SessionsCmd struct {
	List    SessionsListCmd    `cmd:"list" help:"List all tracked sessions" default:"1"`
	History SessionsHistoryCmd `cmd:"history" help:"Show journaled events (requires journal = true)"`
}
