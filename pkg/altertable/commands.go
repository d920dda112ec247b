package altertable

import "github.com/altertable/altertable-go/pkg/altertable/identity"

// op names a buffered client operation.
type op string

const (
	opTrack        op = "track"
	opScreen       op = "screen"
	opIdentify     op = "identify"
	opUpdateTraits op = "updateTraits"
	opAlias        op = "alias"
	opPage         op = "page"
	opReset        op = "reset"
)

// command is one buffered (operation, args) tuple. Commands queue while the
// client is uninitialized and replay exactly once, in order, during Init.
type command struct {
	op op

	// name carries the event name, user id, alias, or URL depending on op.
	name string

	// props carries event properties or traits.
	props map[string]any

	reset identity.ResetOptions
}

// dispatch hands a replayed command to its real handler.
func (c *Client) dispatch(cmd command) {
	switch cmd.op {
	case opTrack:
		c.track(cmd.name, cmd.props)
	case opScreen:
		c.screen(cmd.name, cmd.props)
	case opIdentify:
		c.identify(cmd.name)
	case opUpdateTraits:
		c.updateTraits(cmd.props)
	case opAlias:
		c.alias(cmd.name)
	case opPage:
		c.page(cmd.name)
	case opReset:
		c.ids.Reset(cmd.reset)
	}
}
