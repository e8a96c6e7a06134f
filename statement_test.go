package ygggo_jdbd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreparedStatement_Scan(t *testing.T) {
	s := NewPreparedStatement("SELECT * FROM t WHERE a = ? AND b = ?")
	assert.Equal(t, 2, s.Placeholders())
	assert.Equal(t, []int{26, 36}, s.Offsets())
	assert.False(t, s.AllBound())
	assert.Equal(t, []int{0, 1}, s.Unbound())

	none := NewPreparedStatement("SELECT 1")
	assert.Equal(t, 0, none.Placeholders())
	assert.True(t, none.AllBound())
	assert.Empty(t, none.Parameters())
}

func TestNewPreparedStatement_QuotedMarksCount(t *testing.T) {
	s := NewPreparedStatement("SELECT 'why?' FROM t WHERE id = ?")
	if s.Placeholders() != 2 {
		t.Fatalf("placeholders=%d want 2", s.Placeholders())
	}
}

func TestBind_FillsSlotsInOrder(t *testing.T) {
	s := NewPreparedStatement("INSERT INTO t VALUES (?, ?, ?, ?)")
	require.NoError(t, s.Bind(0, "abc"))
	require.NoError(t, s.BindInt(1, 5))
	require.NoError(t, s.Bind(2, nil))
	require.NoError(t, s.BindBool(3, true))
	assert.True(t, s.AllBound())

	ps := s.Parameters()
	require.Len(t, ps, 4)
	assert.True(t, ps[0].Equal(BytesParam([]byte("abc"))))
	assert.True(t, ps[1].Equal(IntParam(5)))
	assert.True(t, ps[2].IsNull())
	assert.True(t, ps[3].Equal(IntParam(1)))
	assert.Equal(t, "INSERT INTO t VALUES (?, ?, ?, ?)", s.Text())
}

func TestBind_Overwrites(t *testing.T) {
	s := NewPreparedStatement("SELECT ?")
	require.NoError(t, s.BindInt(0, 1))
	require.NoError(t, s.BindDouble(0, 2.5))
	assert.True(t, s.Parameters()[0].Equal(DoubleParam(2.5)))
}

func TestBind_OutOfRange(t *testing.T) {
	s := NewPreparedStatement("SELECT ?")
	for _, pos := range []int{-1, 1, 100} {
		err := s.Bind(pos, 1)
		if !errors.Is(err, ErrBindIndex) {
			t.Fatalf("Bind(%d) err=%v want ErrBindIndex", pos, err)
		}
		var ie *IndexError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, pos, ie.Pos)
		assert.Equal(t, 1, ie.Count)
	}
	assert.ErrorIs(t, s.BindNull(1), ErrBindIndex)
	assert.ErrorIs(t, s.BindString(-1, "x"), ErrBindIndex)
	assert.False(t, s.AllBound())
}

func TestBind_OutOfRangeKeepsBoundSlot(t *testing.T) {
	s := NewPreparedStatement("SELECT ?")
	require.NoError(t, s.BindString(0, "kept"))
	require.True(t, s.AllBound())

	assert.ErrorIs(t, s.Bind(-1, 7), ErrBindIndex)
	assert.ErrorIs(t, s.Bind(1, 7), ErrBindIndex)
	assert.ErrorIs(t, s.BindInt(1, 7), ErrBindIndex)

	assert.True(t, s.AllBound())
	ps := s.Parameters()
	require.Len(t, ps, 1)
	assert.True(t, ps[0].Equal(BytesParam([]byte("kept"))))
}

func TestBind_RebindLeavesOtherSlots(t *testing.T) {
	s := NewPreparedStatement("SELECT ?, ?")
	require.NoError(t, s.BindInt(0, 1))
	require.NoError(t, s.BindInt(0, 2))
	assert.False(t, s.AllBound())
	assert.Equal(t, []int{1}, s.Unbound())
	assert.Nil(t, s.Parameters()[1])

	require.NoError(t, s.BindNull(1))
	require.NoError(t, s.BindDouble(0, 3.5))
	assert.True(t, s.AllBound())
	ps := s.Parameters()
	assert.True(t, ps[0].Equal(DoubleParam(3.5)))
	assert.True(t, ps[1].IsNull())
}

func TestBind_UnsupportedLeavesSlotUntouched(t *testing.T) {
	s := NewPreparedStatement("SELECT ?")
	require.NoError(t, s.BindInt(0, 9))

	err := s.Bind(0, struct{}{})
	require.ErrorIs(t, err, ErrUnsupportedValue)
	var be *BindError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 0, be.Pos)
	assert.True(t, s.Parameters()[0].Equal(IntParam(9)))
}

func TestParameters_ReturnsCopies(t *testing.T) {
	s := NewPreparedStatement("SELECT ?")
	require.NoError(t, s.BindInt(0, 1))
	ps := s.Parameters()
	*ps[0] = IntParam(2)
	assert.True(t, s.Parameters()[0].Equal(IntParam(1)))
}

func TestTypedBinders(t *testing.T) {
	s := NewPreparedStatement("? ? ? ?")
	require.NoError(t, s.BindBytes(0, []byte{0, 1}))
	require.NoError(t, s.BindFloat(1, 1.25))
	require.NoError(t, s.BindNull(2))
	require.NoError(t, s.BindBool(3, false))

	ps := s.Parameters()
	assert.Equal(t, []byte{0, 1}, ps[0].Bytes())
	assert.Equal(t, ParamFloat, ps[1].Kind())
	assert.True(t, ps[2].IsNull())
	assert.Equal(t, int64(0), ps[3].Int())
}
