package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjListInsertAppendsInOrder(t *testing.T) {
	var list ObjList
	a, b, c := &ArrayObj{}, &ArrayObj{}, &ArrayObj{}

	list.insert(a)
	list.insert(b)
	list.insert(c)

	assert.Equal(t, 3, list.len)
	assert.Same(t, a, list.head)
	assert.Same(t, c, list.tail)
	assert.Same(t, b, a.hdr.next)
	assert.Same(t, a, b.hdr.prev)
	assert.Same(t, &list, a.hdr.list)
}

func TestObjListRemoveMiddleRelinksNeighbors(t *testing.T) {
	var list ObjList
	a, b, c := &ArrayObj{}, &ArrayObj{}, &ArrayObj{}
	list.insert(a)
	list.insert(b)
	list.insert(c)

	list.remove(b)

	assert.Equal(t, 2, list.len)
	assert.Same(t, c, a.hdr.next)
	assert.Same(t, a, c.hdr.prev)
	assert.Nil(t, b.hdr.next)
	assert.Nil(t, b.hdr.prev)
	assert.Nil(t, b.hdr.list)
}

func TestObjListRemoveHeadAndTailUpdatesEnds(t *testing.T) {
	var list ObjList
	a, b := &ArrayObj{}, &ArrayObj{}
	list.insert(a)
	list.insert(b)

	list.remove(a)
	assert.Same(t, b, list.head)
	assert.Same(t, b, list.tail)

	list.remove(b)
	assert.Nil(t, list.head)
	assert.Nil(t, list.tail)
	assert.Equal(t, 0, list.len)
}

func TestObjListRemoveFromWrongListIsNoop(t *testing.T) {
	var listA, listB ObjList
	a := &ArrayObj{}
	listA.insert(a)

	listB.remove(a)

	assert.Equal(t, 1, listA.len)
	assert.Same(t, &listA, a.hdr.list)
}
