package lgtv

import "sort"

// Remote control keys understood by HandleKeyInput. Codes are part of the UDAP
// wire contract and must not change.
var (
	// Power
	KeyPower = Key{Name: "POWER", Code: 1, Description: "POWER"}

	// Number keys
	KeyNum0 = Key{Name: "N0", Code: 2, Description: "Number 0"}
	KeyNum1 = Key{Name: "N1", Code: 3, Description: "Number 1"}
	KeyNum2 = Key{Name: "N2", Code: 4, Description: "Number 2"}
	KeyNum3 = Key{Name: "N3", Code: 5, Description: "Number 3"}
	KeyNum4 = Key{Name: "N4", Code: 6, Description: "Number 4"}
	KeyNum5 = Key{Name: "N5", Code: 7, Description: "Number 5"}
	KeyNum6 = Key{Name: "N6", Code: 8, Description: "Number 6"}
	KeyNum7 = Key{Name: "N7", Code: 9, Description: "Number 7"}
	KeyNum8 = Key{Name: "N8", Code: 10, Description: "Number 8"}
	KeyNum9 = Key{Name: "N9", Code: 11, Description: "Number 9"}

	// Navigation
	KeyUp    = Key{Name: "UP", Code: 12, Description: "UP key among remote Controller's 4 direction keys"}
	KeyDown  = Key{Name: "DOWN", Code: 13, Description: "DOWN key among remote Controller's 4 direction keys"}
	KeyLeft  = Key{Name: "LEFT", Code: 14, Description: "LEFT key among remote Controller's 4 direction keys"}
	KeyRight = Key{Name: "RIGHT", Code: 15, Description: "RIGHT key among remote Controller's 4 direction keys"}

	// Menu keys
	KeyOK   = Key{Name: "OK", Code: 20, Description: "OK"}
	KeyHome = Key{Name: "HOME", Code: 21, Description: "Home menu"}
	KeyMenu = Key{Name: "MENU", Code: 22, Description: "Menu key (same with Home menu key)"}
	KeyBack = Key{Name: "BACK", Code: 23, Description: "Previous key (Back)"}

	// Volume
	KeyVolumeUp   = Key{Name: "VOLUME_UP", Code: 24, Description: "Volume up"}
	KeyVolumeDown = Key{Name: "VOLUME_DOWN", Code: 25, Description: "Volume down"}
	KeyMute       = Key{Name: "MUTE", Code: 26, Description: "Mute (toggle)"}

	// Channels
	KeyChannelUp   = Key{Name: "CHANNEL_UP", Code: 27, Description: "Channel UP (+)"}
	KeyChannelDown = Key{Name: "CHANNEL_DOWN", Code: 28, Description: "Channel DOWN (-)"}

	// Color keys of data broadcast
	KeyBlue   = Key{Name: "BLUE", Code: 29, Description: "Blue key of data broadcast"}
	KeyGreen  = Key{Name: "GREEN", Code: 30, Description: "Green key of data broadcast"}
	KeyRed    = Key{Name: "RED", Code: 31, Description: "Red key of data broadcast"}
	KeyYellow = Key{Name: "YELLOW", Code: 32, Description: "Yellow key of data broadcast"}

	// Playback
	KeyPlay         = Key{Name: "PLAY", Code: 33, Description: "Play"}
	KeyPause        = Key{Name: "PAUSE", Code: 34, Description: "Pause"}
	KeyStop         = Key{Name: "STOP", Code: 35, Description: "Stop"}
	KeyFastForward  = Key{Name: "FF", Code: 36, Description: "Fast forward (FF)"}
	KeyRewind       = Key{Name: "REW", Code: 37, Description: "Rewind (REW)"}
	KeySkipForward  = Key{Name: "SF", Code: 38, Description: "Skip Forward"}
	KeySkipBackward = Key{Name: "SB", Code: 39, Description: "Skip Backward"}

	// Recording
	KeyRecord     = Key{Name: "RECORD", Code: 40, Description: "Record"}
	KeyRecordList = Key{Name: "RECORDLIST", Code: 41, Description: "Recording list"}

	// Program and picture
	KeyRepeat         = Key{Name: "REPEAT", Code: 42, Description: "Repeat"}
	KeyLiveTV         = Key{Name: "LIVETV", Code: 43, Description: "Live TV"}
	KeyEPG            = Key{Name: "EPG", Code: 44, Description: "EPG"}
	KeyCurrentProgram = Key{Name: "CURRENTPROG", Code: 45, Description: "Current program information"}
	KeyAspect         = Key{Name: "ASPECT", Code: 46, Description: "Aspect ratio"}
	KeyExternalInput  = Key{Name: "EXTERNALINPUT", Code: 47, Description: "External input"}
	KeyPIP            = Key{Name: "PIP", Code: 48, Description: "PIP secondary video"}
	KeySubtitle       = Key{Name: "SUBTITLE", Code: 49, Description: "Show / Change subtitle"}
	KeyProgramList    = Key{Name: "PROGRAMLIST", Code: 50, Description: "Program list"}
	KeyTeletext       = Key{Name: "TELETEXT", Code: 51, Description: "Tele Text"}
	KeyMark           = Key{Name: "MARK", Code: 52, Description: "Mark"}

	KeyVideo3D          = Key{Name: "3DVIDEO", Code: 400, Description: "3D Video"}
	KeyLR3D             = Key{Name: "3DLR", Code: 401, Description: "3D L/R"}
	KeyDash             = Key{Name: "DASH", Code: 402, Description: "Dash (-)"}
	KeyPreviousChannel  = Key{Name: "PREVCHANNEL", Code: 403, Description: "Previous channel (Flash back)"}
	KeyFavorite         = Key{Name: "FAVORITE", Code: 404, Description: "Favorite channel"}
	KeyQuickMenu        = Key{Name: "QUICKMENU", Code: 405, Description: "Quick menu"}
	KeyTextOption       = Key{Name: "TEXTOPTION", Code: 406, Description: "Text Option"}
	KeyAudioDescription = Key{Name: "AUDIODESCR", Code: 407, Description: "Audio Description"}
	KeyNetCast          = Key{Name: "NETCAST", Code: 408, Description: "NetCast key (same with Home menu)"}
	KeyEnergySave       = Key{Name: "ENGERGYSAVE", Code: 409, Description: "Energy saving"}
	KeyAVMode           = Key{Name: "AVMODE", Code: 410, Description: "A/V mode"}
	KeySimplink         = Key{Name: "SIMPLINK", Code: 411, Description: "SIMPLINK"}
	KeyExit             = Key{Name: "EXIT", Code: 412, Description: "Exit"}
	KeyReservations     = Key{Name: "RESERVAT", Code: 413, Description: "Reservation programs list"}
	KeyPIPChannelUp     = Key{Name: "PIP_CHANNEL_UP", Code: 414, Description: "PIP channel UP"}
	KeyPIPChannelDown   = Key{Name: "PIP_CHANNEL_DOWN", Code: 415, Description: "PIP channel DOWN"}
	KeySwitchVideo      = Key{Name: "SWITCHPSEC", Code: 416, Description: "Switching between primary/secondary video"}
	KeyMyApps           = Key{Name: "MYAPPS", Code: 417, Description: "My Apps"}
)

// catalog lists every key in remote layout order
var catalog = []Key{
	KeyPower, KeyNum0, KeyNum1, KeyNum2, KeyNum3, KeyNum4, KeyNum5, KeyNum6,
	KeyNum7, KeyNum8, KeyNum9, KeyUp, KeyDown, KeyLeft, KeyRight, KeyOK, KeyHome,
	KeyMenu, KeyBack, KeyVolumeUp, KeyVolumeDown, KeyMute, KeyChannelUp,
	KeyChannelDown, KeyBlue, KeyGreen, KeyRed, KeyYellow, KeyPlay, KeyPause,
	KeyStop, KeyFastForward, KeyRewind, KeySkipForward, KeySkipBackward,
	KeyRecord, KeyRecordList, KeyRepeat, KeyLiveTV, KeyEPG, KeyCurrentProgram,
	KeyAspect, KeyExternalInput, KeyPIP, KeySubtitle, KeyProgramList, KeyTeletext,
	KeyMark, KeyVideo3D, KeyLR3D, KeyDash, KeyPreviousChannel, KeyFavorite,
	KeyQuickMenu, KeyTextOption, KeyAudioDescription, KeyNetCast, KeyEnergySave,
	KeyAVMode, KeySimplink, KeyExit, KeyReservations, KeyPIPChannelUp,
	KeyPIPChannelDown, KeySwitchVideo, KeyMyApps,
}

var keysByName = func() map[string]Key {
	index := make(map[string]Key, len(catalog))
	for _, k := range catalog {
		index[k.Name] = k
	}
	return index
}()

// Key is a remote control key and its UDAP virtual key code
type Key struct {
	Name        string `json:"name"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// LookupKey finds a key by its symbolic name, e.g. "VOLUME_UP"
func LookupKey(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// Keys returns a copy of the catalog in remote layout order
func Keys() []Key {
	keys := make([]Key, len(catalog))
	copy(keys, catalog)
	return keys
}

// KeyNames returns every symbolic name sorted alphabetically
func KeyNames() []string {
	names := make([]string, 0, len(catalog))
	for _, k := range catalog {
		names = append(names, k.Name)
	}
	sort.Strings(names)
	return names
}
