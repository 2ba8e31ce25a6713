package orderbook

// CalculateDepthChanges calculates the depth changes caused by a book log.
// Open and Cancel touch the order's own side. Match reduces the maker side,
// which is the opposite of log.Side. Amend withdraws the old size at the old
// price and adds the new size at the new price; when the price is unchanged
// the two collapse into a single signed difference.
// Reject never changes the book and yields no changes.
func CalculateDepthChanges(log *BookLog) []DepthChange {
	switch log.Type {
	case LogTypeOpen:
		return []DepthChange{{
			Side:     log.Side,
			Price:    log.Price,
			SizeDiff: int64(log.Size),
		}}
	case LogTypeCancel:
		return []DepthChange{{
			Side:     log.Side,
			Price:    log.Price,
			SizeDiff: -int64(log.Size),
		}}
	case LogTypeMatch:
		return []DepthChange{{
			Side:     log.Side.Opposite(),
			Price:    log.Price,
			SizeDiff: -int64(log.Size),
		}}
	case LogTypeAmend:
		if log.OldPrice.Equal(log.Price) {
			return []DepthChange{{
				Side:     log.Side,
				Price:    log.Price,
				SizeDiff: int64(log.Size) - int64(log.OldSize),
			}}
		}
		return []DepthChange{
			{
				Side:     log.Side,
				Price:    log.OldPrice,
				SizeDiff: -int64(log.OldSize),
			},
			{
				Side:     log.Side,
				Price:    log.Price,
				SizeDiff: int64(log.Size),
			},
		}
	case LogTypeReject:
		return nil
	}

	return nil
}
