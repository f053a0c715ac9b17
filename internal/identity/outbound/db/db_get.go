package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/bookhivelabs/bookhive/internal/identity/entity"
)

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	var info entity.UserLoginInfo
	err = s.conn.QueryRow(ctx,
		`SELECT id, email, role, status, password FROM users WHERE email = $1`,
		email,
	).Scan(&info.ID, &info.Email, &info.Role, &info.Status, &info.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

func (s *DB) GetUserLoginInfoByID(ctx context.Context, id int64) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfoByID")
	defer func() { s.endSpan(span, err) }()

	var info entity.UserLoginInfo
	err = s.conn.QueryRow(ctx,
		`SELECT id, email, role, status, password FROM users WHERE id = $1`,
		id,
	).Scan(&info.ID, &info.Email, &info.Role, &info.Status, &info.Password)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	err = s.conn.QueryRow(ctx,
		`SELECT id, email, full_name, phone, role, status, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.Phone, &user.Role,
		&user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	err = s.conn.QueryRow(ctx,
		`SELECT id, email, full_name, phone, role, status, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.Phone, &user.Role,
		&user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

func (s *DB) GetUserList(ctx context.Context, filter entity.UserListFilterData) (_ []entity.User, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetUserList")
	defer func() { s.endSpan(span, err) }()

	var (
		where []string
		args  []any
	)

	if filter.IsFilterBySearch {
		args = append(args, "%"+filter.Search+"%")
		idx := strconv.Itoa(len(args))
		where = append(where, "(email ILIKE $"+idx+" OR full_name ILIKE $"+idx+")")
	}
	if filter.IsFilterByStatus {
		args = append(args, filter.Statuses)
		where = append(where, "status = ANY($"+strconv.Itoa(len(args))+")")
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		where = append(where, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		where = append(where, "created_at <= $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	orderBy := "created_at"
	switch filter.OrderBy {
	case "email", "full_name", "created_at":
		orderBy = filter.OrderBy
	}
	direction := "DESC"
	if strings.EqualFold(filter.OrderDirection, "asc") {
		direction = "ASC"
	}

	args = append(args, filter.Size)
	limitIdx := strconv.Itoa(len(args))
	args = append(args, filter.Page)
	offsetIdx := strconv.Itoa(len(args))

	rows, err := s.conn.Query(ctx,
		`SELECT id, email, full_name, phone, role, status, created_at, updated_at
		 FROM users`+whereClause+
			` ORDER BY `+orderBy+` `+direction+
			` LIMIT $`+limitIdx+` OFFSET $`+offsetIdx,
		args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var user entity.User
		if sErr := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.Phone,
			&user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt); sErr != nil {
			return nil, 0, s.mapError(sErr)
		}
		users = append(users, user)
	}

	return users, total, s.mapError(rows.Err())
}

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rt entity.UserRefreshToken
	err = s.conn.QueryRow(ctx,
		`SELECT rt.id, rt.user_id, u.email, u.role, u.status, rt.expires_at, rt.revoked
		 FROM refresh_tokens rt JOIN users u ON u.id = rt.user_id
		 WHERE rt.token = $1`,
		token,
	).Scan(&rt.TokenID, &rt.UserID, &rt.UserEmail, &rt.UserRole, &rt.UserStatus,
		&rt.ExpiresAt, &rt.Revoked)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rt, nil
}

func (s *DB) GetChallengeUserByTokenPurpose(ctx context.Context, token string, p entity.ChallengePurpose) (_ *entity.ChallengeUser, err error) {
	ctx, span := s.startSpan(ctx, "GetChallengeUserByTokenPurpose")
	defer func() { s.endSpan(span, err) }()

	var cu entity.ChallengeUser
	err = s.conn.QueryRow(ctx,
		`SELECT c.id, c.user_id, u.email, u.status, c.expires_at
		 FROM challenges c JOIN users u ON u.id = c.user_id
		 WHERE c.token = $1 AND c.purpose = $2`,
		token, int16(p),
	).Scan(&cu.ChallengeID, &cu.UserID, &cu.UserEmail, &cu.UserStatus, &cu.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cu, nil
}
