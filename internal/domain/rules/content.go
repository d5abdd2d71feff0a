package rules

import (
	"regexp"
	"strings"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

// Detector confidences are fixed per category trigger. The verdict keeps
// the maximum confidence across everything that matched.
const (
	confProfanity       = 0.95
	confPlatformMention = 0.90
	confPlatformHandle  = 0.85
	confPlatformPhrase  = 0.95
	confPhoneNumber     = 0.95
	confExternalPayment = 0.85
	confSexualContent   = 0.95
	confDrugs           = 0.95
)

const minPhoneDigits = 10

var (
	profanityCyr = regexp.MustCompile(`(хуй|хуя|хуе|пизд|ебан|ебат|ебал|ебут|бляд|блят|мудак|мудил|долбоеб|пидор|пидар|гандон|залуп|шлюх)`)
	profanityLat = regexp.MustCompile(`(fuck|shit|bitch|asshole|cunt|whore|motherfucker)`)

	platformMention = regexp.MustCompile(`(телеграм|телега|тлг|telegram|whatsapp|вотсап|ватсап|вацап|viber|вайбер|skype|скайп|discord|дискорд|instagram|инстаграм)`)
	platformPhrase  = regexp.MustCompile(`(напиши|пиши|напишите|позвони|звони|перейди|переходи|свяжись|свяжитесь)[^.!?]{0,40}(телеграм|телег|тлг|telegram|whatsapp|вотсап|ватсап|вацап|viber|вайбер|skype|скайп|discord|дискорд)`)

	// Handle tokens are matched against the original-case text: @ plus
	// three or more word characters.
	platformHandle = regexp.MustCompile(`@[A-Za-z0-9_]{3,}`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\+7|8)[\s\-]?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}`),
		regexp.MustCompile(`\d{10,15}`),
		regexp.MustCompile(`\d{3}[\s\-]\d{3}[\s\-]\d{4}`),
		regexp.MustCompile(`\d{5}[\s\-]\d{5}`),
	}

	nonDigit = regexp.MustCompile(`\D`)

	paymentBypass = regexp.MustCompile(`(оплат|заплат|оплач|перевед|перевод|перечисл|скин)[а-яё]*[^.!?]{0,50}(напрямую|наличн|без\s+комисси|мимо\s+(платформ|сайт)[а-яё]*|в\s+обход|на\s+карту|на\s+сч[её]т|на\s+(киви|qiwi|юмани|webmoney))`)
	paymentCash   = regexp.MustCompile(`(на\s+карту|наличк|наличн)[а-яё]*[^.!?]{0,50}(мимо|в\s+обход|напрямую|без\s+(сайта|платформы|комиссии))`)
	paymentWallet = regexp.MustCompile(`(киви\s*кошел|qiwi|юмани|yoomoney|webmoney|вебмани|payeer|paypal|пэйпал)`)

	sexualGeneral    = regexp.MustCompile(`(секс|порно|порнограф|эротик)`)
	sexualExplicit   = regexp.MustCompile(`(минет|мастурб|оргазм|вагин|анальн)`)
	sexualCommercial = regexp.MustCompile(`(интим\s*(услуг|досуг)|проститут|эскорт[а-яё]*\s*(услуг)?|снять\s+(девочку|девушку))`)
	sexualMeetup     = regexp.MustCompile(`(встреч|встрет|познаком)[а-яё]*[^.!?]{0,40}(секс|интим)`)

	drugNames    = regexp.MustCompile(`(героин|кокаин|амфетамин|метамфетамин|мефедрон|марихуан|гашиш|экстази|мдма|лсд)`)
	drugSlang    = regexp.MustCompile(`(наркотик|наркота|наркоту|дурь|травк[аиу]|шишки|косяк)`)
	drugMixtures = regexp.MustCompile(`(куритель[а-яё]*\s+смес|спайс|миксы?\s+для\s+курени|закладк|закладок)`)
	// Go's \b is ASCII-only, so word bounds around Cyrillic slang are
	// expressed through explicit separator classes.
	drugSynonyms = regexp.MustCompile(`(^|[\s.,:;!?()])(соль|альфа|мет|меф|фен|скорость|гера|кокс)($|[\s.,:;!?()])`)
)

// Evaluate classifies free text against the prohibited-content rule
// battery. It is pure and deterministic: same text, same verdict.
func Evaluate(text string) model.Verdict {
	lower := strings.ToLower(text)

	var reasons []enums.Category
	confidence := 0.0

	add := func(tag enums.Category, conf float64) {
		reasons = append(reasons, tag)
		if conf > confidence {
			confidence = conf
		}
	}

	if profanityCyr.MatchString(lower) || profanityLat.MatchString(lower) {
		add(enums.CategoryProfanity, confProfanity)
	}

	if platformMention.MatchString(lower) {
		add(enums.CategoryExternalPlatform, confPlatformMention)
	}
	if platformHandle.MatchString(text) {
		add(enums.CategoryExternalPlatform, confPlatformHandle)
	}
	if platformPhrase.MatchString(lower) {
		add(enums.CategoryExternalPlatform, confPlatformPhrase)
	}

	if hasPhoneNumber(text) {
		add(enums.CategoryPhoneNumber, confPhoneNumber)
	}

	if paymentBypass.MatchString(lower) || paymentCash.MatchString(lower) || paymentWallet.MatchString(lower) {
		add(enums.CategoryExternalPayment, confExternalPayment)
	}

	if sexualGeneral.MatchString(lower) || sexualExplicit.MatchString(lower) ||
		sexualCommercial.MatchString(lower) || sexualMeetup.MatchString(lower) {
		add(enums.CategorySexualContent, confSexualContent)
	}

	if drugNames.MatchString(lower) || drugSlang.MatchString(lower) ||
		drugMixtures.MatchString(lower) || drugSynonyms.MatchString(lower) {
		add(enums.CategoryDrugs, confDrugs)
	}

	verdict := model.Verdict{
		Flagged:    len(reasons) > 0,
		Reasons:    dedupe(reasons),
		Confidence: confidence,
		Action:     enums.ActionNone,
	}
	resolveAction(&verdict)
	return verdict
}

// hasPhoneNumber accepts a grouping pattern only when at least one of
// its matches still has >= 10 digits after stripping separators.
func hasPhoneNumber(text string) bool {
	for _, p := range phonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			if len(nonDigit.ReplaceAllString(m, "")) >= minPhoneDigits {
				return true
			}
		}
	}
	return false
}

// resolveAction walks the category branches in fixed source order with
// no early exit, so when several categories match, the last branch
// (the most severe one) supplies the action and message.
func resolveAction(v *model.Verdict) {
	has := func(tag enums.Category) bool {
		for _, r := range v.Reasons {
			if r == tag {
				return true
			}
		}
		return false
	}

	if has(enums.CategoryExternalPlatform) || has(enums.CategoryPhoneNumber) {
		v.Action = enums.ActionBlocked
		v.Message = "Обмен контактами до начала сделки запрещён. Уберите контактные данные или обратитесь в поддержку."
	}
	if has(enums.CategoryExternalPayment) {
		v.Action = enums.ActionBlocked
		v.Message = "Оплата вне платформы запрещена правилами сервиса. Исправьте текст или обратитесь в поддержку."
	}
	if has(enums.CategoryProfanity) {
		v.Action = enums.ActionBlocked
		v.Message = "Сообщение содержит нецензурную лексику. Пожалуйста, исправьте текст."
	}
	if has(enums.CategorySexualContent) {
		v.Action = enums.ActionBlocked
		v.Message = "Контент такого рода запрещён на платформе. Исправьте текст или обратитесь в поддержку."
	}
	if has(enums.CategoryDrugs) {
		v.Action = enums.ActionBlocked
		v.Message = "Упоминание запрещённых веществ недопустимо. Исправьте текст или обратитесь в поддержку."
	}
}

func dedupe(tags []enums.Category) []enums.Category {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[enums.Category]struct{}, len(tags))
	out := make([]enums.Category, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
