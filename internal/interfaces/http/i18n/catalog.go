// Package i18n resolves user-facing workflow messages against the
// Accept-Language header. English, Arabic and Central Kurdish (Sorani)
// are supported; anything else falls back to English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/momtazchem/backend/internal/domain/order"
)

var supported = []language.Tag{
	language.English,
	language.Arabic,
	language.MustParse("ckb"),
}

// Message keys are the English format strings; translations are
// registered against them in buildCatalog.
const (
	msgFinancialApproved  = "Order %s approved by finance and queued for warehouse"
	msgFinancialRejected  = "Order %s rejected by finance"
	msgWarehouseProcessed = "Order %s is being prepared in the warehouse"
	msgWarehouseApproved  = "Order %s is ready for dispatch"
	msgLogisticsDispatch  = "Order %s is out for delivery"
	msgLogisticsDelivered = "Order %s has been delivered"
	msgActionApplied      = "Order %s updated"

	msgOrderNotFound     = "Order not found"
	msgActionNotAllowed  = "You are not allowed to perform this action"
	msgInvalidTransition = "This action is not allowed in the current order state"
)

// Localizer picks the best supported language for a request and formats
// messages through the translation catalog.
type Localizer struct {
	matcher language.Matcher
	catalog catalog.Catalog
}

// New builds a Localizer with the full translation catalog
func New() *Localizer {
	return &Localizer{
		matcher: language.NewMatcher(supported),
		catalog: buildCatalog(),
	}
}

// Printer returns a message printer for the given Accept-Language header.
// Unparseable or unsupported headers resolve to English.
func (l *Localizer) Printer(acceptLanguage string) *message.Printer {
	tag := language.English
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			tag, _, _ = l.matcher.Match(tags...)
		}
	}
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

// ActionMessage formats the localized success message for a department
// action applied to the given order number.
func (l *Localizer) ActionMessage(acceptLanguage string, action order.DepartmentAction, orderNumber string) string {
	key := msgActionApplied
	switch action {
	case order.ActionFinancialApprove:
		key = msgFinancialApproved
	case order.ActionFinancialReject:
		key = msgFinancialRejected
	case order.ActionWarehouseProcess:
		key = msgWarehouseProcessed
	case order.ActionWarehouseApprove:
		key = msgWarehouseApproved
	case order.ActionLogisticsDispatch:
		key = msgLogisticsDispatch
	case order.ActionLogisticsDeliver:
		key = msgLogisticsDelivered
	}
	return l.Printer(acceptLanguage).Sprintf(key, orderNumber)
}

// ErrorMessage formats the localized message for a workflow error code.
// Codes without a translation keep the caller-provided fallback.
func (l *Localizer) ErrorMessage(acceptLanguage, code, fallback string) string {
	var key string
	switch code {
	case "NOT_FOUND":
		key = msgOrderNotFound
	case "FORBIDDEN", "UNAUTHORIZED":
		key = msgActionNotAllowed
	case "INVALID_TRANSITION", "INVALID_STATE":
		key = msgInvalidTransition
	default:
		return fallback
	}
	return l.Printer(acceptLanguage).Sprintf(key)
}

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	arabic := language.Arabic
	sorani := language.MustParse("ckb")

	set := func(key, ar, ckb string) {
		b.SetString(arabic, key, ar)
		b.SetString(sorani, key, ckb)
	}

	set(msgFinancialApproved,
		"تمت الموافقة المالية على الطلب %s وأُحيل إلى المستودع",
		"داواکاری %s لەلایەن دارایی پەسەند کرا و نێردرا بۆ کۆگا")
	set(msgFinancialRejected,
		"تم رفض الطلب %s من القسم المالي",
		"داواکاری %s لەلایەن دارایی ڕەتکرایەوە")
	set(msgWarehouseProcessed,
		"جاري تجهيز الطلب %s في المستودع",
		"داواکاری %s لە کۆگا ئامادە دەکرێت")
	set(msgWarehouseApproved,
		"الطلب %s جاهز للشحن",
		"داواکاری %s ئامادەیە بۆ ناردن")
	set(msgLogisticsDispatch,
		"الطلب %s في الطريق إليك",
		"داواکاری %s لە ڕێگایە بۆ گەیاندن")
	set(msgLogisticsDelivered,
		"تم تسليم الطلب %s",
		"داواکاری %s گەیەنرا")
	set(msgActionApplied,
		"تم تحديث الطلب %s",
		"داواکاری %s نوێکرایەوە")

	set(msgOrderNotFound,
		"الطلب غير موجود",
		"داواکاری نەدۆزرایەوە")
	set(msgActionNotAllowed,
		"غير مصرح لك بتنفيذ هذا الإجراء",
		"ڕێگات پێ نادرێت ئەم کردارە ئەنجام بدەیت")
	set(msgInvalidTransition,
		"هذا الإجراء غير مسموح به في حالة الطلب الحالية",
		"ئەم کردارە لە دۆخی ئێستای داواکاریدا ڕێگەپێدراو نییە")

	return b
}
