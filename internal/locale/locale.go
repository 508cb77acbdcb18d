// Package locale holds the per-language message and keyboard-label tables.
// Control flow never keys on the translated strings; screens are identified
// by stable ids and labels are resolved through this package for rendering
// and for mapping an incoming label back to its screen.
package locale

// Key identifies one translatable message or keyboard label.
type Key string

// Keyboard labels. The emoji suffixes are part of the label: Telegram sends
// back exactly what the keyboard showed.
const (
	LabelMenu           Key = "menu"
	LabelSettings       Key = "settings"
	LabelGames          Key = "games"
	LabelChangeLanguage Key = "change_language"
	LabelNewGame        Key = "new_game"
	LabelReturn         Key = "return"
	LabelEnglish        Key = "english"
	LabelPersian        Key = "persian"
)

// Messages.
const (
	MsgSelectItem      Key = "select_item"
	MsgSelectLanguage  Key = "select_language"
	MsgSelectGame      Key = "select_game"
	MsgSendURL         Key = "send_url"
	MsgSendScore       Key = "send_score"
	MsgWait            Key = "wait"
	MsgTryAgain        Key = "try_again"
	MsgBanned          Key = "banned"
	MsgForbidden       Key = "forbidden"
	MsgLangChangedEN   Key = "lang_changed_en"
	MsgLangChangedFA   Key = "lang_changed_fa"
	MsgGameName        Key = "game_name"
	MsgYourRank        Key = "your_rank"
	MsgYourRecord      Key = "your_record"
	MsgAdminGranted    Key = "admin_granted"
	MsgAdminRepeated   Key = "admin_repeated"
)

const (
	// English is the default language.
	English = "en_US"
	Persian = "fa_IR"
)

var tables = map[string]map[Key]string{
	English: {
		LabelMenu:           "menu",
		LabelSettings:       "Settings ⚙️",
		LabelGames:          "Games 🧩",
		LabelChangeLanguage: "Change language 🗣",
		LabelNewGame:        "New game ➕",
		LabelReturn:         "Return ↩️",
		LabelEnglish:        "English 🇺🇸",
		LabelPersian:        "فارسی 🇮🇷",

		MsgSelectItem:     "Please select one item:",
		MsgSelectLanguage: "Please select your language:",
		MsgSelectGame:     "Please select your game:",
		MsgSendURL:        "Please send game URL:",
		MsgSendScore:      "Please send your score:",
		MsgWait:           "Please wait a moment...",
		MsgTryAgain:       "Something went wrong, please try again later.",
		MsgBanned:         "You are banned! 🗿",
		MsgForbidden:      "Access forbidden.",
		MsgLangChangedEN:  "Language changed to english.",
		MsgLangChangedFA:  "Language changed to persian.",
		MsgGameName:       "Game name: ",
		MsgYourRank:       "Your rank: ",
		MsgYourRecord:     "Your record: ",
		MsgAdminGranted:   "Admin access granted to user %d.",
		MsgAdminRepeated:  "User %d is already an admin.",
	},
	Persian: {
		LabelMenu:           "منو",
		LabelSettings:       "تنظیمات ⚙️",
		LabelGames:          "بازی‌ها 🧩",
		LabelChangeLanguage: "تغییر زبان 🗣",
		LabelNewGame:        "بازی جدید ➕",
		LabelReturn:         "بازگشت ↩️",
		LabelEnglish:        "English 🇺🇸",
		LabelPersian:        "فارسی 🇮🇷",

		MsgSelectItem:     "لطفا یک گزینه را انتخاب کنید:",
		MsgSelectLanguage: "لطفا زبان خود را انتخاب کنید:",
		MsgSelectGame:     "لطفا بازی خود را انتخاب کنید:",
		MsgSendURL:        "لطفا لینک بازی را ارسال کنید:",
		MsgSendScore:      "لطفا امتیاز خود را ارسال کنید:",
		MsgWait:           "لطفا چند لحظه صبر کنید...",
		MsgTryAgain:       "مشکلی پیش آمد، لطفا بعدا دوباره تلاش کنید.",
		MsgBanned:         "شما مسدود شده‌اید! 🗿",
		MsgForbidden:      "دسترسی غیرمجاز.",
		MsgLangChangedEN:  "Language changed to english.",
		MsgLangChangedFA:  "زبان به فارسی تغییر کرد.",
		MsgGameName:       "نام بازی: ",
		MsgYourRank:       "رتبه شما: ",
		MsgYourRecord:     "رکورد شما: ",
		MsgAdminGranted:   "دسترسی ادمین به کاربر %d داده شد.",
		MsgAdminRepeated:  "کاربر %d از قبل ادمین است.",
	},
}

// T returns the translation of k for the given language, falling back to
// English for unknown languages or missing entries.
func T(lang string, k Key) string {
	if table, ok := tables[lang]; ok {
		if msg, ok := table[k]; ok {
			return msg
		}
	}
	return tables[English][k]
}

// Languages lists the supported language tags.
func Languages() []string {
	return []string{English, Persian}
}
