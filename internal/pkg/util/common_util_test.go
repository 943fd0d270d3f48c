package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("今天完成了晨跑 #晨跑 #打卡 坚持就是胜利 #晨跑")
	assert.Equal(t, []string{"晨跑", "打卡"}, tags)

	assert.Empty(t, ExtractTags("没有任何标签的内容"))

	// 标签尾部的标点会被剥掉
	tags = ExtractTags("完成训练 #健身！ 继续加油 #饮食。")
	assert.Equal(t, []string{"健身", "饮食"}, tags)
}

func TestNormalizePage(t *testing.T) {
	page, pageSize := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)

	page, pageSize = NormalizePage(-3, -10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)

	page, pageSize = NormalizePage(2, 1000)
	assert.Equal(t, 2, page)
	assert.Equal(t, 100, pageSize)

	page, pageSize = NormalizePage(5, 30)
	assert.Equal(t, 5, page)
	assert.Equal(t, 30, pageSize)
}

func TestTruncatePreview(t *testing.T) {
	assert.Equal(t, "短内容", TruncatePreview("短内容", 30))
	assert.Equal(t, "一二三四五…", TruncatePreview("一二三四五六七八", 5))
	assert.Equal(t, "", TruncatePreview("", 30))
}

func TestStrSliceToUInt64Slice(t *testing.T) {
	ids, err := StrSliceToUInt64Slice([]string{"1", "42", "9007199254740993"})
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1, 42, 9007199254740993}, ids)

	_, err = StrSliceToUInt64Slice([]string{"1", "abc"})
	assert.Error(t, err)

	ids, err = StrSliceToUInt64Slice(nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPtrHelpers(t *testing.T) {
	assert.Equal(t, 3, *PtrInt(3))
	assert.Equal(t, int64(-7), *PtrInt64(-7))
	assert.Equal(t, "x", *PtrStr("x"))
	assert.Equal(t, float32(1.5), *PtrFloat32(1.5))
}
