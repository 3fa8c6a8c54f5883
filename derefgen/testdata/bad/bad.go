package bad

// Unmarked 多字段但没有标记目标字段
//
// @Deref
type Unmarked struct {
	A string
	B uint
}

// DoubleMarked 标记了两个目标字段
//
// @Deref
type DoubleMarked struct {
	A string `deref:"target"`
	B uint   `deref:"target"`
}

// Empty 没有字段
//
// @Deref
type Empty struct{}

// Good 同一个包里合法的声明
//
// @Deref
type Good struct {
	V string
}
