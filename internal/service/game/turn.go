package game

// TurnSequence 是一局中的循环发言顺序
// Order 为空表示当前没有进行中的发言
type TurnSequence struct {
	Order []string
	Index int
}

// 以一次无偏洗牌生成发言顺序，不修改传入的切片
func NewTurnSequence(playerIDs []string, rng Random) TurnSequence {
	order := make([]string, len(playerIDs))
	copy(order, playerIDs)

	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	return TurnSequence{
		Order: order,
		Index: 0,
	}
}

func (ts *TurnSequence) Active() bool {
	return len(ts.Order) > 0
}

func (ts *TurnSequence) Current() (string, bool) {
	if !ts.Active() {
		return "", false
	}

	return ts.Order[ts.Index], true
}

// 轮到下一位，最后一位之后回到第一位
func (ts *TurnSequence) Advance() (string, bool) {
	if !ts.Active() {
		return "", false
	}

	ts.Index = (ts.Index + 1) % len(ts.Order)

	return ts.Order[ts.Index], true
}

// 把离开的玩家移出发言顺序，返回其是否在顺序中
func (ts *TurnSequence) Remove(playerID string) bool {
	newOrder, newIndex, removed := RemoveFromTurnOrder(ts.Order, ts.Index, playerID)
	if !removed {
		return false
	}

	ts.Order = newOrder
	ts.Index = newIndex

	return true
}

func (ts *TurnSequence) Reset() {
	ts.Order = nil
	ts.Index = 0
}

// RemoveFromTurnOrder 删除 removedID 并修正指针，使其仍然指向"相对的下一位"：
//   - 被删位置在指针之前：指针左移一位
//   - 删除后指针越界：回到 0
//   - 被删的正是当前发言者：同一位置上的玩家接替
//
// 返回新的顺序切片（不与 order 共享底层数组）、新的指针以及是否发生了删除
func RemoveFromTurnOrder(order []string, index int, removedID string) ([]string, int, bool) {
	pos := -1
	for i, id := range order {
		if id == removedID {
			pos = i
			break
		}
	}

	if pos < 0 {
		return order, index, false
	}

	newOrder := make([]string, 0, len(order)-1)
	newOrder = append(newOrder, order[:pos]...)
	newOrder = append(newOrder, order[pos+1:]...)

	if pos < index {
		index--
	}

	if index >= len(newOrder) || index < 0 {
		index = 0
	}

	return newOrder, index, true
}
