package comment

import "github.com/Guyuepp/market-front/domain"

// BuildThreads partitions a flat comment list into top-level comments and their replies.
// Both levels keep the order of the input. A reply to a reply is rendered under its
// top-level ancestor; a comment whose parent chain does not reach a top-level comment
// of the list is dropped. The input is not modified.
func BuildThreads(comments []domain.Comment) []domain.CommentThread {
	byID := make(map[domain.ID]int, len(comments))
	roots := 0
	for i := range comments {
		if comments[i].IsTopLevel() {
			roots++
		}
		if _, ok := byID[comments[i].ID]; !ok {
			byID[comments[i].ID] = i
		}
	}

	replyMap := make(map[domain.ID][]domain.Comment)
	for i := range comments {
		if comments[i].IsTopLevel() {
			continue
		}
		if root, ok := rootOf(comments, byID, i); ok {
			replyMap[root] = append(replyMap[root], comments[i])
		}
	}

	res := make([]domain.CommentThread, 0, roots)
	for _, c := range comments {
		if !c.IsTopLevel() {
			continue
		}
		replies, ok := replyMap[c.ID]
		if !ok {
			replies = []domain.Comment{}
		}
		res = append(res, domain.CommentThread{Comment: c, Replies: replies})
	}
	return res
}

// rootOf follows parent links from comments[i] up to a top-level comment.
// The walk is bounded by the list length so a parent cycle terminates.
func rootOf(comments []domain.Comment, byID map[domain.ID]int, i int) (domain.ID, bool) {
	c := comments[i]
	for steps := 0; !c.IsTopLevel(); steps++ {
		j, ok := byID[*c.ParentID]
		if !ok || steps >= len(comments) {
			return "", false
		}
		c = comments[j]
	}
	return c.ID, true
}
