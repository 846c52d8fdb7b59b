// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package pages

import (
	"fmt"

	"github.com/tomtom215/cadence/internal/accounts"
	"github.com/tomtom215/cadence/internal/frame"
)

func (d *Deps) renderAccount(rc *RenderContext) (*Result, error) {
	if rc.Username == "" {
		return nil, fmt.Errorf("%w: no user in session", accounts.ErrUserNotFound)
	}
	if d.Users == nil {
		return nil, fmt.Errorf("account page: no user directory configured")
	}
	u, err := d.Users.Get(rc.Username)
	if err != nil {
		return nil, err
	}
	p := u.Profile()

	t, err := frame.New("profile",
		frame.StringColumn("field", "用户名", "联系方式", "邮箱", "注册时间"),
		frame.StringColumn("value", p.Username, p.Phone, p.Email, p.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	res := &Result{Page: Account, Title: "我的用户信息"}
	res.add(tableArtifact("用户基本资料", t, t.NumRows()))
	res.add(textArtifact("个性签名", p.Intro))
	res.meta("profile", p)
	res.meta("role", rc.Role)
	return res, nil
}
