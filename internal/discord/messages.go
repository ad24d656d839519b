package discord

// Friendly message constants for Discord responses
const (
	// Linking
	MsgNotLinked     = "🔗 **Not Linked**\nUse `/link` to connect your osu! account first."
	MsgAlreadyLinked = "🔗 **Already Linked**\nUse `/unlink` first if you want to switch accounts."
	MsgLinkConflict  = "🔗 **Account Taken**\nThat osu! account is already linked to someone else."
	MsgLinkExpired   = "⏰ **Link Expired**\nThe authorization window closed. Run `/link` again."
	MsgBadCallback   = "❓ **That Link Didn't Work**\nPaste the full address from your browser after approving access."
	MsgOAuthDisabled = "🔒 **Linking Unavailable**\nThe osu! OAuth client is not configured."

	// Tokens
	MsgTokenExpired   = "⏳ **Authorization Expired**\nYour osu! authorization lapsed. Run `/unlink` then `/link` to renew it."
	MsgMissingScopes  = "🔒 **Missing Permissions**\nRe-link to grant:"
	MsgOsuUnavailable = "🌐 **osu! Unavailable**\nThe osu! servers did not answer. Try again shortly."
	MsgOsuNotFound    = "👤 **User Not Found**\nCheck the spelling or try their numeric id."

	MsgInvalidInput = "❓ **Invalid Input**"
	MsgAPIDown      = "❌ Error connecting to the link server."
	MsgGenericError = "❌ Something went wrong."
)

// Embed colours
const (
	ColorSuccess = 0x2ecc71
	ColorInfo    = 0x3498db
	ColorPending = 0xf1c40f
	ColorWarning = 0xe67e22
	ColorError   = 0xe74c3c
	ColorOsu     = 0xff66aa
)

// Footer constants for standardized embed footers
const (
	FooterOsuLink  = "OsuLink"
	FooterOsuTrack = "Data from osu!track"
)
