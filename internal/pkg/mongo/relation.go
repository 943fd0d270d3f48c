package mongo

import "time"

// Relation 关注关系模型，每个用户一份文档
// following 与 followers 互为镜像：A 关注 B 时，A.following 与 B.followers 同时更新
type Relation struct {
	UserID    uint64    `bson:"_id" json:"userId"`
	Following []uint64  `bson:"following" json:"following"` // 我关注的人
	Followers []uint64  `bson:"followers" json:"followers"` // 关注我的人
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
