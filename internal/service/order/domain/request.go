// internal/service/order/domain/request.go
package domain

import (
	"sort"
	"strings"

	"lessonhub/internal/pkg/apperr"
)

// OrderRequest 是客户端提交的下单请求。
// ItemIDs 中同一个课程出现几次就代表购买几个名额。
type OrderRequest struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Zip            string   `json:"zip"`
	ItemIDs        []string `json:"itemIds"`
	NumberOfSpaces int      `json:"numberOfSpaces"`
}

// DemandMap 记录每个课程需要的名额数。
type DemandMap map[string]int

// IDs 返回按字典序排列的课程 ID, 预占时按此顺序加锁。
func (d DemandMap) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Total 返回全部名额之和。
func (d DemandMap) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Validate 是纯函数: 按固定顺序检查必填字段, 报告第一个缺失的字段;
// 通过后统计每个课程的需求量。
func Validate(req *OrderRequest) (DemandMap, error) {
	if req == nil {
		return nil, apperr.Validation("order request is required")
	}
	required := []struct {
		name  string
		value string
	}{
		{"name", req.Name},
		{"phone", req.Phone},
		{"address", req.Address},
		{"city", req.City},
		{"state", req.State},
		{"zip", req.Zip},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, newFieldError(f.name, "missing required field: %s", f.name)
		}
	}
	if len(req.ItemIDs) == 0 {
		return nil, newFieldError("itemIds", "missing required field: itemIds")
	}

	demand := make(DemandMap, len(req.ItemIDs))
	for i, id := range req.ItemIDs {
		if strings.TrimSpace(id) == "" {
			return nil, newFieldError("itemIds", "itemIds[%d] is blank", i)
		}
		demand[id]++
	}

	if req.NumberOfSpaces <= 0 {
		return nil, newFieldError("numberOfSpaces", "numberOfSpaces must be a positive integer")
	}
	if req.NumberOfSpaces != len(req.ItemIDs) {
		return nil, newFieldError("numberOfSpaces",
			"numberOfSpaces (%d) does not match the number of items (%d)", req.NumberOfSpaces, len(req.ItemIDs))
	}
	return demand, nil
}
