package bot

// Reply-keyboard button labels. Text routing matches on these verbatim, so
// they live next to the keyboards that render them.
const (
	btnSubmit    = "✅ Відправити на модерацію"
	btnStartOver = "🔄 Заповнити заново"

	btnQueue    = "📋 Заявки на модерацію"
	btnHistory  = "📊 Історія заявок"
	btnChannels = "🔧 Керування каналами"
	btnSpam     = "🛡 Захист від спаму"
	btnLogout   = "🚪 Вийти з адмінки"

	btnAddChannel    = "➕ Додати канал"
	btnEditChannel   = "📝 Редагувати канал"
	btnDeleteChannel = "🗑 Видалити канал"
	btnListChannels  = "📋 Список каналів"
	btnCleanup       = "🧹 Очистити сирітські заявки"

	btnRename   = "📝 Змінити назву"
	btnChangeID = "🔗 Змінити ID"

	btnSpamDelay  = "⏱ Змінити затримку"
	btnSpamToggle = "🔄 Увімкнути/Вимкнути"
	btnSpamStatus = "📊 Поточний статус"

	btnConfirm = "✅ Підтвердити"
	btnCancel  = "❌ Скасувати"
	btnBack    = "🔙 Назад"

	btnApprove = "✅ Опублікувати"
	btnReject  = "❌ Відхилити"
)

const (
	msgGreetingChannels = "👋 Вітаю! Оберіть канал:"
	msgHelp             = "📚 <b>Довідка</b>\n\n/start - почати\n/help - довідка"
	msgNoAccess         = "❌ Немає доступу!"
	msgAdminUsage       = "⚠️ Використовуйте: /admin пароль"
	msgWrongPassword    = "❌ Невірний пароль!"
	msgAdminWelcome     = "✅ Увійшли в адмінку!"
	msgAdminPanel       = "Адмін панель:"
	msgAdminBye         = "👋 Вийшли."
	msgUnknownAction    = "❌ Невідома дія. Оберіть пункт меню:"
	msgConfirmOrCancel  = "❌ Оберіть «✅ Підтвердити» або «❌ Скасувати»:"

	msgPickChannelFromList = "❌ Оберіть канал зі списку:"
	msgSendPost            = "✅ Канал: <b>%s</b>\n\nНадішли пост:"
	msgTextReceived        = "📝 Текст отримано!\n\nОбери дію:"
	msgPhotoReceived       = "📸 Фото отримано!\n\nОбери дію:"
	msgVideoReceived       = "🎥 Відео отримано!\n\nОбери дію:"
	msgAlbumReceived       = "📸 Альбом: %s\n\nОбери дію:"
	msgSubmitted           = "✅ Відправлено! Заявка #%d"
	msgStartOver           = "🔄 Заново!\n\nОбери канал:"
	msgSpamBlocked         = "🛡 Зачекайте ще %d хв. перед наступною заявкою."

	msgDeepLinkSet      = "👋 Вітаю!\n\n✅ Канал встановлено: <b>%s</b>\n\nНадішли пост:"
	msgDeepLinkNotFound = "❌ Канал не знайдено.\n\n💡 Зверніться до адміністратора за правильним посиланням."

	msgNoPending        = "Немає заявок на модерацію."
	msgPickQueueChannel = "Оберіть канал для перегляду заявок:"
	msgQueueForChannel  = "📋 Заявки для каналу: <b>%s</b>"
	msgNoQueueInChannel = "Немає заявок для каналу '%s'."
	msgHistoryEmpty     = "Історія порожня."
	msgModerationCard   = "🆔 #%d\n👤 @%s\n📢 %s\n🕒 %s"
	msgCardActions      = "Дії:"

	msgPublished        = "✅ Опубліковано!"
	msgRejected         = "❌ Відхилено!"
	msgAlreadyDecided   = "⚠️ Заявку вже оброблено."
	msgChannelLost      = "❌ Канал '%s' не знайдено в БД!"
	msgPublishFailed    = "❌ Помилка публікації, спробуйте пізніше."
	msgUserApproved     = "✅ Пост опубліковано в '%s'!"
	msgUserRejected     = "❌ Пост відхилено."

	msgChannelMenu        = "🔧 <b>Керування каналами</b>\n\nОберіть дію:"
	msgChannelMenuShort   = "🔧 Керування каналами:"
	msgNoChannelsToEdit   = "❌ Немає каналів для редагування."
	msgNoChannelsToDelete = "❌ Немає каналів для видалення."
	msgNoChannelsAtAll    = "❌ Немає каналів у базі даних."
	msgAddChannelName     = "➕ <b>Додати новий канал</b>\n\nВведіть назву каналу:"
	msgChannelNameTaken   = "❌ Канал з такою назвою вже існує! Введіть іншу назву:"
	msgAddChannelID       = "Назва: <b>%s</b>\n\nТепер введіть ID каналу (наприклад: @channel або https://t.me/channel):"
	msgBadChannelID       = "❌ Невірний формат! Введіть ID у форматі @channel або https://t.me/channel"
	msgChannelAdded       = "✅ <b>Канал додано!</b>\n\nНазва: <b>%s</b>\nID: %s\n\n⚠️ <b>ВАЖЛИВО:</b> Додайте бота до каналу та надайте права адміністратора!"
	msgPickChannelEdit    = "📝 <b>Редагувати канал</b>\n\nОберіть канал:"
	msgPickChannelDelete  = "🗑 <b>Видалити канал</b>\n\nОберіть канал для видалення:"
	msgEditChannelActions = "📝 <b>Редагувати канал:</b> %s\n\nПоточний ID: %s\n\nОберіть дію:"
	msgEnterNewName       = "Поточна назва: <b>%s</b>\n\nВведіть нову назву:"
	msgEnterNewID         = "Канал: <b>%s</b>\nПоточний ID: %s\n\nВведіть новий ID (наприклад: @new_channel):"
	msgRenamed            = "✅ Назву каналу змінено!\n\nСтара назва: <b>%s</b>\nНова назва: <b>%s</b>"
	msgIDChanged          = "✅ ID каналу змінено!\n\nКанал: <b>%s</b>\nНовий ID: %s\n\n⚠️ Не забудьте додати бота до нового каналу!"
	msgDeleteConfirm      = "❗️ <b>Підтвердження видалення</b>\n\nВи впевнені, що хочете видалити канал:\n<b>%s</b> (%s)"
	msgDeleteWarnPending  = "\n\n🗑 <b>УВАГА:</b> Буде видалено %d заявок на модерацію!"
	msgDeleted            = "✅ Канал <b>%s</b> видалено!"
	msgDeletedWithPosts   = "\n\n🗑 Також видалено %d заявок на модерацію."
	msgDeleteCancelled    = "❌ Видалення скасовано."
	msgCancelled          = "❌ Скасовано."
	msgChannelsHeader     = "📋 <b>Список каналів:</b>\n\n"
	msgCleanupDone        = "🧹 <b>Очищено!</b>\n\nВидалено %d заявок для каналів, які більше не існують."
	msgCleanupNothing     = "✅ Сирітських заявок не знайдено.\n\nВсі заявки прив'язані до існуючих каналів."

	msgSpamMenu      = "🛡 <b>Захист від спаму</b>\n\nСтатус: %s\nЗатримка: %d хв.\n\nОберіть дію:"
	msgSpamStatusOn  = "✅ Увімкнено"
	msgSpamStatusOff = "❌ Вимкнено"
	msgSpamToggled   = "🔄 Захист від спаму %s!"
	msgSpamEnabled   = "✅ увімкнено"
	msgSpamDisabled  = "❌ вимкнено"
	msgSpamAskDelay  = "⏱ <b>Зміна затримки</b>\n\nПоточна затримка: %d хв.\n\nВведіть нову затримку (в хвилинах):"
	msgSpamBadDelay  = "❌ Введіть число від 1 до 1440 (24 години):"
	msgSpamBadNumber = "❌ Введіть коректне число:"
	msgSpamDelaySet  = "✅ Затримку змінено на %d хв.!"
)
