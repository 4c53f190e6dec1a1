package commands

// Message constants
const (
	MsgRootShort = "A product-stack environment manager"
	MsgRootLong = `upstack manages software stacks: collections of declared product
versions organized by platform flavor. It keeps a per-flavor registry of
products and tags, and generates the shell startup scripts that splice a
stack's bin directory into your search path.`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagRoot    = "Stack root to operate on (default: first writable root in UPSTACK_PATH)"
	MsgFlagFlavor  = "Platform flavor (default: detected from the running platform)"

	MsgMksetupShort = "Generate the setups.csh, setups.sh and setups.zsh startup scripts"
	MsgMksetupLong = `mksetup writes the three shell startup scripts into INSTALL_DIR. Each
script exports a search path built from CURRENT_PATH with duplicates
removed and INSTALL_DIR/bin guaranteed present, and defines the setup and
unsetup commands. An optional SETUP_ALIAS:UNSETUP_ALIAS pair renames
those commands.`
	MsgMksetupWrote = "wrote %s"

	MsgDeclareShort = "Declare a product version into the stack"
	MsgDeclared     = "declared %s %s for flavor %s"

	MsgUndeclareShort = "Remove a declared product version from the stack"
	MsgUndeclared     = "undeclared %s %s for flavor %s"

	MsgListShort  = "List declared products"
	MsgListEmpty  = "no products declared"
	MsgTagsShort  = "List tags assigned on the stack"
	MsgTagsEmpty  = "no tags assigned"
	MsgTagShort   = "Assign a tag to a declared product version"
	MsgTagged     = "tagged %s %s as %s"
	MsgUntagShort = "Remove a tag from a product"
	MsgUntagged   = "removed tag %s from %s"

	MsgFlavorsShort = "Show the native flavor and its fallbacks"

	MsgErrNoWritableRoot = "no writable stack database found in UPSTACK_PATH"
	MsgErrNoRoot         = "no stack database found in UPSTACK_PATH"
	MsgErrAliasPair      = "alias pair must be SETUP_ALIAS:UNSETUP_ALIAS"
)
