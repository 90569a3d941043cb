package main

// Numeric reply codes used by the dispatcher. Names follow RFC 1459/2812.
const (
	rplWelcome       = "001"
	rplYourHost      = "002"
	rplCreated       = "003"
	rplMyInfo        = "004"
	rplISupport      = "005"
	rplAway          = "301"
	rplUnAway        = "305"
	rplNowAway       = "306"
	rplWhoisUser     = "311"
	rplWhoisServer   = "312"
	rplEndOfWhois    = "318"
	rplWhoisChannels = "319"
	rplWhoisIdle     = "317"
	rplEndOfWho      = "315"
	rplWhoReply      = "352"
	rplListStart     = "321"
	rplList          = "322"
	rplListEnd       = "323"
	rplChannelModeIs = "324"
	rplNoTopic       = "331"
	rplTopic         = "332"
	rplTopicWhoTime  = "333"
	rplNamReply      = "353"
	rplEndOfNames    = "366"
	rplMotdStart     = "375"
	rplMotd          = "372"
	rplEndOfMotd     = "376"
	rplVersion       = "351"
	rplChannelCreated = "329"
	rplIsOn          = "303"

	errNoSuchNick      = "401"
	errNoSuchChannel   = "403"
	errCannotSendToChan = "404"
	errNoRecipient     = "411"
	errNoTextToSend    = "412"
	errUnknownCommand  = "421"
	errNoNicknameGiven = "431"
	errErroneusNickname = "432"
	errNicknameInUse   = "433"
	errNotOnChannel    = "442"
	errNotRegistered   = "451"
	errNeedMoreParams  = "461"
	errAlreadyRegistered = "462"
	errChanOpPrivsNeeded = "482"
	errErroneusChanname  = "479"
	errUsersDontMatch    = "502"
)
