// Package i18n maps maintenance domain codes to display text per language.
//
// Every lookup is total: an unknown language resolves to the default language
// table and an unknown code is returned unchanged.
package i18n

import "strings"

const DefaultLanguage = "en"

// Domain 一类代码的多语言映射表：language -> code -> text
type Domain map[string]map[string]string

var Priority = Domain{
	"en": {
		"1": "Very High",
		"2": "High",
		"3": "Medium",
		"4": "Low",
	},
	"de": {
		"1": "Sehr hoch",
		"2": "Hoch",
		"3": "Mittel",
		"4": "Niedrig",
	},
}

var NotificationType = Domain{
	"en": {
		"M1": "Maintenance Request",
		"M2": "Malfunction Report",
		"M3": "Activity Report",
	},
	"de": {
		"M1": "Instandhaltungsanforderung",
		"M2": "Störmeldung",
		"M3": "Tätigkeitsmeldung",
	},
}

var OrderType = Domain{
	"en": {
		"PM01": "Maintenance Order",
		"PM02": "Preventive Maintenance",
		"PM03": "Inspection Order",
		"PM04": "Refurbishment Order",
	},
	"de": {
		"PM01": "Instandhaltungsauftrag",
		"PM02": "Vorbeugende Instandhaltung",
		"PM03": "Inspektionsauftrag",
		"PM04": "Aufarbeitungsauftrag",
	},
}

// TextFor 解析 code 的显示文本；语言缺表时退回默认语言，code 缺失时原样返回
func (d Domain) TextFor(code string, language string) string {
	table, ok := d[strings.ToLower(language)]
	if !ok {
		table = d[DefaultLanguage]
	}
	if text, ok := table[code]; ok {
		return text
	}
	return code
}

func PriorityText(code, language string) string {
	return Priority.TextFor(code, language)
}

func NotificationTypeText(code, language string) string {
	return NotificationType.TextFor(code, language)
}

func OrderTypeText(code, language string) string {
	return OrderType.TextFor(code, language)
}

// Supported 返回是否为受支持的语言
func Supported(language string) bool {
	switch strings.ToLower(language) {
	case "en", "de":
		return true
	}
	return false
}
