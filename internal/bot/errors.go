package bot

import "errors"

// errNoTranscriber is returned for voice notes when speech is not configured.
var errNoTranscriber = errors.New("bot: no transcriber configured")
