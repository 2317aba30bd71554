package typeinfo

// Category 是类型的序列化类别，在描述符构建时确定一次，之后不再改变。
type Category uint8

const (
	CategoryUnsupported Category = iota
	CategoryArray
	CategoryGenerated
	CategoryExternalizable
	CategoryText
	CategoryClassLiteral
	CategoryEnum
)

var categoryNames = [...]string{
	CategoryUnsupported:    "Unsupported",
	CategoryArray:          "Array",
	CategoryGenerated:      "Generated",
	CategoryExternalizable: "Externalizable",
	CategoryText:           "Text",
	CategoryClassLiteral:   "ClassLiteral",
	CategoryEnum:           "Enum",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}
