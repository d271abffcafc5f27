package i18n

import "sync"

// Translator retrieves localized messages for precondition classifications
// and issue codes. data provides optional values to embed in the message.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "object_schema":
			return "オブジェクトスキーマ"
		case "simple_object_schema":
			return "単純なオブジェクトスキーマ (追加プロパティ・結合キーワードなし)"
		case "additional_properties":
			return "追加プロパティを持ち結合キーワードのないオブジェクトスキーマ"
		case "no_additional_properties":
			return "additionalProperties が未設定のオブジェクトスキーマ"
		case "homogeneous_array_schema":
			return "単一の items を持つ配列スキーマ"
		case "property_exists":
			return "既存のプロパティ"
		case "property_absent":
			return "未定義のプロパティ名"
		case "schema_violation":
			return "スキーマ検証に失敗しました"
		case "compile_error":
			return "バリデータのコンパイルに失敗しました"
		}
	default: // "en"
		switch code {
		case "object_schema":
			return "an object schema"
		case "simple_object_schema":
			return "a simple object schema (no additional properties, no oneOf/allOf/anyOf/not)"
		case "additional_properties":
			return "an object schema with additional properties and no oneOf/allOf/anyOf/not"
		case "no_additional_properties":
			return "an object schema whose additionalProperties is not set"
		case "homogeneous_array_schema":
			return "an array schema with a single items schema"
		case "property_exists":
			return "an existing property"
		case "property_absent":
			return "an undeclared property name"
		case "schema_violation":
			return "schema validation failed"
		case "compile_error":
			return "validator compilation failed"
		}
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
