package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/es"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/security"
	"Wellspring/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (uint64, error)
	Login(ctx context.Context, dto *dto.CredentialDTO, isByPassword bool) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserHomeInfoById(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	SearchUser(ctx context.Context, dto *dto.SearchUserDTO) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UserDTO) error
	UpdatePasswordFromToken(ctx context.Context, dto *dto.ForgetPasswordDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdatePhone(ctx context.Context, id uint64, dto *dto.ChangePhoneDTO) error
	UpdateUsername(ctx context.Context, id uint64, dto *dto.ChangeUsernameDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	BanUser(ctx context.Context, id uint64) error
	UnBanUser(ctx context.Context, id uint64) error
	CancelUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo   repository.UserRepo
	roleRepo   repository.RoleRepo
	userESRepo es.UserRepo
}

func NewUserService(userRepo repository.UserRepo, roleRepo repository.RoleRepo, userESRepo es.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		userESRepo: userESRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (uint64, error) {
	credentialDTO := &dto.CredentialDTO{
		Username: regDTO.Username,
		Phone:    regDTO.Phone,
	}
	findUser, err := s.findUserByLoginCredentials(ctx, credentialDTO)
	if err != nil {
		return 0, err
	}
	if findUser != nil {
		return 0, ErrUserExist
	}

	user := &model.User{}
	err = copier.Copy(user, &regDTO)
	if err != nil {
		return 0, err
	}

	// username & password 形式注册
	if regDTO.Password != nil {
		passwordHash, err := security.HashPassword(*regDTO.Password)
		if err != nil {
			return 0, err
		}
		user.Password = &passwordHash
	}

	// 手机号形式注册
	if regDTO.Phone != nil {
		key := consts.SmsCheckTokenKey + *regDTO.Phone
		value, err := redis.GetValue(ctx, key)
		if err != nil {
			return 0, err
		}
		if regDTO.PhoneToken == nil || value != *regDTO.PhoneToken {
			return 0, ErrSmsRegTokenIncorrect
		}
		_ = redis.DeleteKey(ctx, key)
	}

	detail := &model.UserDetail{}
	err = copier.Copy(detail, &regDTO)
	if err != nil {
		return 0, err
	}
	if detail.AvatarURL == "" {
		detail.AvatarURL = consts.DefaultAvatarURL
	}

	role := model.UserRole{
		UserID: user.ID,
		RoleID: 1,
	}
	roles := []*model.UserRole{&role}

	err = s.userRepo.CreateUser(ctx, user, detail, &roles)
	if err != nil {
		return 0, err
	}

	s.indexUser(ctx, user.ID)
	return user.ID, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO, isByPassword bool) (*dto.TokenDTO, error) {
	user, err := s.findUserByLoginCredentials(ctx, credDTO)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsBan {
		return nil, ErrUserBan
	}
	if isByPassword {
		if credDTO.Password == nil || user.Password == nil {
			return nil, ErrPasswordIncorrect
		}
		err = security.CheckPasswordHash(*credDTO.Password, *user.Password)
		if err != nil {
			return nil, ErrPasswordIncorrect
		}
	}
	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{UserID: user.ID, Token: token}, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	userDTO := &dto.UserDTO{}
	err = copier.Copy(userDTO, user)
	if err != nil {
		return nil, err
	}
	err = copier.Copy(userDTO, user.UserDetail)
	if err != nil {
		return nil, err
	}
	userDTO.UserID = &user.ID
	userDTO.Coins = &user.Coins
	url := minio.GetPublicURL(user.UserDetail.AvatarURL)
	userDTO.AvatarURL = &url
	return userDTO, nil
}

func (s *UserServiceImpl) GetUserHomeInfoById(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	key := consts.UserHomeInfoKey + strconv.FormatUint(id, 10)
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != "" {
		var userDTO *dto.UserDTO
		err = json.Unmarshal([]byte(value), &userDTO)
		if err != nil {
			return nil, err
		}
		return userDTO, nil
	}
	user, err := s.userRepo.GetUserHomeInfoById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	userDTO := &dto.UserDTO{}
	err = copier.Copy(userDTO, user)
	if err != nil {
		return nil, err
	}
	userDTO.UserID = &user.UserID
	url := minio.GetPublicURL(user.AvatarURL)
	userDTO.AvatarURL = &url
	jsonStr, err := json.Marshal(userDTO)
	if err != nil {
		return nil, err
	}
	err = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1)
	if err != nil {
		return nil, err
	}
	return userDTO, nil
}

func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	newIds := make([]uint64, 0, len(ids))
	mp := make(map[uint64]*dto.UserDTO)
	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value != "" {
			var userDTO *dto.UserDTO
			err = json.Unmarshal([]byte(value), &userDTO)
			if err != nil {
				newIds = append(newIds, id)
			} else {
				mp[id] = userDTO
			}
		} else {
			newIds = append(newIds, id)
		}
	}
	if len(newIds) > 0 {
		userDetails, err := s.userRepo.GetUserSimpleInfoByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, userDetail := range userDetails {
			userDTO := &dto.UserDTO{}
			err = copier.Copy(userDTO, userDetail)
			if err != nil {
				return nil, err
			}
			userDTO.UserID = &userDetail.UserID
			url := minio.GetPublicURL(userDetail.AvatarURL)
			userDTO.AvatarURL = &url
			mp[userDetail.UserID] = userDTO
			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				return nil, err
			}
			err = redis.SetWithExpiration(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(userDetail.UserID, 10), string(jsonStr), time.Hour*1)
			if err != nil {
				return nil, err
			}
		}
	}
	userDTOList := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if mp[id] == nil {
			continue
		}
		userDTOList = append(userDTOList, mp[id])
	}
	return userDTOList, nil
}

func (s *UserServiceImpl) SearchUser(ctx context.Context, searchDTO *dto.SearchUserDTO) ([]*dto.UserDTO, error) {
	// 昵称检索走 ES，其余精确条件走 DB
	if searchDTO.Nickname != nil {
		users, err := s.userESRepo.SearchUsers(ctx, *searchDTO.Nickname, 0, 20)
		if err != nil {
			return nil, err
		}
		result := make([]*dto.UserDTO, 0, len(users))
		for _, u := range users {
			url := minio.GetPublicURL(u.AvatarURL)
			result = append(result, &dto.UserDTO{
				UserID:    &u.ID,
				Nickname:  &u.Nickname,
				AvatarURL: &url,
				Bio:       u.Bio,
			})
		}
		return result, nil
	}

	var user *model.User
	var err error
	if searchDTO.ID != nil {
		user, err = s.userRepo.GetUserById(ctx, *searchDTO.ID)
	} else if searchDTO.Username != nil {
		user, err = s.userRepo.GetUserByUsername(ctx, *searchDTO.Username)
	} else if searchDTO.Phone != nil {
		user, err = s.userRepo.GetUserByPhone(ctx, *searchDTO.Phone)
	} else {
		return nil, ErrParamInvalid
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*dto.UserDTO{}, nil
	}
	userDTO := &dto.UserDTO{}
	if err = copier.Copy(userDTO, user.UserDetail); err != nil {
		return nil, err
	}
	userDTO.UserID = &user.ID
	url := minio.GetPublicURL(user.UserDetail.AvatarURL)
	userDTO.AvatarURL = &url
	return []*dto.UserDTO{userDTO}, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	newUUID, err := uuid.NewUUID()
	if err != nil {
		return err
	}
	lockKey := consts.UserDetailLock + strconv.FormatUint(id, 10)
	lock, err := redis.TryLock(ctx, lockKey, newUUID.String(), time.Second*5, 3)
	if err != nil {
		return err
	}
	if !lock {
		return UnExpectedError
	}
	defer redis.UnLock(ctx, lockKey, newUUID.String())

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	err = copier.CopyWithOption(&user.UserDetail, userDTO, copier.Option{IgnoreEmpty: true})
	if err != nil {
		return err
	}
	err = s.userRepo.UpdateUserDetail(ctx, &user.UserDetail)
	if err != nil {
		return err
	}
	s.evictUserCache(ctx, id)
	s.indexUser(ctx, id)
	return nil
}

func (s *UserServiceImpl) UpdatePasswordFromToken(ctx context.Context, forgetDTO *dto.ForgetPasswordDTO) error {
	user, err := s.userRepo.GetUserByPhone(ctx, *forgetDTO.Phone)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserPhoneNotFound
	}
	phone := user.Phone
	if phone == nil {
		return ErrUserPhoneNotFound
	}
	key := consts.SmsKey + *phone
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return err
	}
	if value != *forgetDTO.SmsCode {
		return ErrCodeIncorrect
	}
	passwordHash, err := security.HashPassword(*forgetDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	err = s.userRepo.UpdateUser(ctx, user)
	_ = redis.DeleteKey(ctx, key)
	return err
}

func (s *UserServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, changeDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Password == nil {
		return ErrPasswordIncorrect
	}
	err = security.CheckPasswordHash(*changeDTO.OldPassword, *user.Password)
	if err != nil {
		return ErrPasswordIncorrect
	}
	passwordHash, err := security.HashPassword(*changeDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdatePhone(ctx context.Context, id uint64, changeDTO *dto.ChangePhoneDTO) error {
	userByPhone, err := s.userRepo.GetUserByPhone(ctx, *changeDTO.NewPhone)
	if err != nil {
		return err
	}
	if userByPhone != nil {
		return ErrUserPhoneExist
	}
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	// 新手机号需要先通过短信校验换取临时令牌
	key := consts.SmsCheckTokenKey + *changeDTO.NewPhone
	value, err := redis.GetValue(ctx, key)
	if err != nil {
		return err
	}
	if value != *changeDTO.PhoneToken {
		return ErrSmsRegTokenIncorrect
	}
	_ = redis.DeleteKey(ctx, key)

	user.Phone = changeDTO.NewPhone
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateUsername(ctx context.Context, id uint64, changeDTO *dto.ChangeUsernameDTO) error {
	userByUsername, err := s.userRepo.GetUserByUsername(ctx, *changeDTO.Username)
	if err != nil {
		return err
	}
	if userByUsername != nil {
		return ErrUserUsernameExist
	}
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.Username = changeDTO.Username
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = minio.PromoteTempFile(ctx, objectName); err != nil {
		return err
	}
	user.UserDetail.AvatarURL = objectName
	err = s.userRepo.UpdateUserDetail(ctx, &user.UserDetail)
	if err != nil {
		return err
	}
	s.evictUserCache(ctx, id)
	s.indexUser(ctx, id)
	return nil
}

func (s *UserServiceImpl) BanUser(ctx context.Context, id uint64) error {
	return s.changeUserIsBanStatus(ctx, id, true)
}

func (s *UserServiceImpl) UnBanUser(ctx context.Context, id uint64) error {
	return s.changeUserIsBanStatus(ctx, id, false)
}

func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.evictUserCache(ctx, id)
	if err = s.userESRepo.DeleteUser(ctx, id); err != nil {
		log.WarnContext(ctx, "delete user from es failed", "userID", id, "err", err)
	}
	return nil
}

func (s *UserServiceImpl) findUserByLoginCredentials(ctx context.Context, dto *dto.CredentialDTO) (*model.User, error) {
	if dto.Username != nil && *dto.Username != "" {
		return s.userRepo.GetUserByUsername(ctx, *dto.Username)
	}
	if dto.Phone != nil && *dto.Phone != "" {
		return s.userRepo.GetUserByPhone(ctx, *dto.Phone)
	}
	return nil, ErrMissingLoginCredentials
}

func (s *UserServiceImpl) getRoleNamesForUser(ctx context.Context, user *model.User) ([]string, error) {
	if len(user.UserRoles) == 0 {
		return []string{}, nil
	}
	roleIDs := make([]uint64, 0, len(user.UserRoles))
	for _, role := range user.UserRoles {
		roleIDs = append(roleIDs, role.RoleID)
	}
	roles, err := s.roleRepo.GetRoleByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		return nil, UnExpectedError
	}
	roleNames := make([]string, 0, len(*roles))
	for _, role := range *roles {
		roleNames = append(roleNames, role.Name)
	}
	return roleNames, nil
}

func (s *UserServiceImpl) changeUserIsBanStatus(ctx context.Context, id uint64, isBan bool) error {
	rows, err := s.userRepo.UpdateUserIsBan(ctx, id, isBan)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) evictUserCache(ctx context.Context, id uint64) {
	_ = redis.DeleteKey(ctx, consts.UserHomeInfoKey+strconv.FormatUint(id, 10))
	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}

// indexUser 把最新的用户资料同步进 ES，失败只记日志
func (s *UserServiceImpl) indexUser(ctx context.Context, id uint64) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil || user == nil {
		log.WarnContext(ctx, "load user for es index failed", "userID", id, "err", err)
		return
	}

	doc := &es.UserES{
		ID:        user.ID,
		Nickname:  user.UserDetail.Nickname,
		Bio:       user.UserDetail.Bio,
		AvatarURL: user.UserDetail.AvatarURL,
	}
	if user.UserDetail.Gender != nil {
		doc.Gender = int(*user.UserDetail.Gender)
	}
	if user.UserDetail.Region != nil {
		doc.Region = *user.UserDetail.Region
	}
	if user.UserDetail.Birthday != nil {
		if birthday, err := time.Parse("2006-01-02", *user.UserDetail.Birthday); err == nil {
			doc.Birthday = birthday
		}
	}

	if err = s.userESRepo.IndexUser(ctx, doc, user.UpdatedAt.UnixMilli()); err != nil {
		log.WarnContext(ctx, "index user to es failed", "userID", id, "err", err)
	}
}
